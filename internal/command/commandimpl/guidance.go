package commandimpl

import "strings"

// rewriteGuidance turns raw pipeline error text into something actionable
// for the user. Rate-limit flavored failures get concrete advice instead of
// the upstream's wording.
func rewriteGuidance(reason string) string {
	lower := strings.ToLower(reason)

	switch {
	case strings.Contains(lower, "rate limited"), strings.Contains(lower, "429"),
		strings.Contains(lower, "please wait"):
		return "⏳ Instagram limite les requêtes. Patiente quelques minutes, espace tes envois, ou configure INSTAGRAM_SESSION_ID pour un meilleur taux de succès."
	case strings.Contains(lower, "checkpoint"):
		return "🔐 Instagram demande une vérification du compte. Connecte-toi dans un navigateur, valide le checkpoint, puis réessaie."
	case strings.Contains(lower, "no media found"):
		return "⚠️ Aucun média trouvé (post privé ou non accessible)."
	case strings.Contains(lower, "invalid post url"):
		return "Lien invalide. Exemple: https://www.instagram.com/p/XXXXXXXXX/"
	default:
		return reason
	}
}
