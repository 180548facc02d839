package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gotutor/internal/ui/theme"
)

const bannerArt = ` ██████╗  ██████╗ ████████╗██╗   ██╗████████╗ ██████╗ ██████╗
██╔════╝ ██╔═══██╗╚══██╔══╝██║   ██║╚══██╔══╝██╔═══██╗██╔══██╗
██║  ███╗██║   ██║   ██║   ██║   ██║   ██║   ██║   ██║██████╔╝
██║   ██║██║   ██║   ██║   ██║   ██║   ██║   ██║   ██║██╔══██╗
╚██████╔╝╚██████╔╝   ██║   ╚██████╔╝   ██║   ╚██████╔╝██║  ██║
 ╚═════╝  ╚═════╝    ╚═╝    ╚═════╝    ╚═╝    ╚═════╝ ╚═╝  ╚═╝`

const bannerCompact = "G O T U T O R"

// bannerMinWidth is the narrowest width that fits bannerArt.
const bannerMinWidth = 66

// renderBanner returns the banner in the primary color, or a compact
// fallback for narrow terminals.
func renderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
