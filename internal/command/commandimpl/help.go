package commandimpl

const helpText = `👋 Instagram Media Downloader

Envoie-moi un ou plusieurs liens de publications Instagram publiques (posts / reels / tv).
• Un lien par ligne, ou séparés par espaces/virgules
• Je télécharge photos + vidéos en qualité max et je te renvoie un ZIP par post
• Si un ZIP dépasse la limite, j'envoie les fichiers individuellement

⚙️ Stabilité vidéo: configure INSTAGRAM_SESSION_ID (voir /status)
Utilise ce bot uniquement pour du contenu dont tu as les droits.`

func (c *CommandImpl) handleHelp(chatID int64) {
	c.Telegram.SendMessage(chatID, helpText)
}
