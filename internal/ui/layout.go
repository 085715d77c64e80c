package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout joins the arena panel and side panel horizontally,
// with menu bar on top and status bar on bottom.
func ComposeLayout(menuBar, arenaPanel, sidePanel, statusBar string) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, arenaPanel, sidePanel)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}

// RenderArenaPanel wraps arena content with a styled border. The border
// brightens once the target is found.
func RenderArenaPanel(width, height int, arenaContent, legend string, found bool) string {
	content := arenaContent + "\n" + legend
	style := StylePanelBorder
	if found {
		style = StylePanelActive
	}
	return style.Width(width - 2).Height(height - 2).Render(content)
}
