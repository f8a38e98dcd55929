package monitor

import (
	"github.com/charmbracelet/lipgloss"
)

// renderSettings shows the effective configuration. Changing it requires
// editing configs/config.yml or the AIRGUARD_* environment and restarting.
func (m Model) renderSettings(totalWidth int) string {
	cfg := m.deps.Config
	rows := [][2]string{
		{"API base URL", cfg.API.BaseURL},
		{"API timeout", cfg.API.Timeout.String()},
		{"Poll interval", cfg.Poll.Interval.String()},
		{"Timezone", m.deps.Location.String()},
		{"Log level", cfg.Log.Level},
		{"Log file", cfg.Log.File},
	}

	keyS := lipgloss.NewStyle().Foreground(colorDim).Width(16)
	valS := lipgloss.NewStyle().Foreground(colorLabel)

	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(colorHeading).Render("Settings")}
	for _, r := range rows {
		lines = append(lines, keyS.Render(r[0])+valS.Render(r[1]))
	}
	lines = append(lines, "", lipgloss.NewStyle().Foreground(colorDim).Render(
		"Read-only. Edit configs/config.yml or set AIRGUARD_* variables and restart."))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(totalWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
