package render

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/fyp-cli/internal/application"
	"github.com/bnema/fyp-cli/internal/domain"
)

type SessionOptions struct {
	Now time.Time
}

// Session renders the signed-in user and the remaining access token lifetime.
func Session(state application.SessionState, opts SessionOptions) (string, error) {
	return run(func(s styles) string {
		return sessionView(state, opts, s)
	})
}

func sessionView(state application.SessionState, opts SessionOptions, s styles) string {
	lines := []string{s.title.Render("FYP Session")}

	if !state.IsAuthenticated || state.User == nil {
		lines = append(lines, s.empty.Render("Not signed in."))
		if state.Err != nil {
			lines = append(lines, s.warning.Render(domain.UserMessage(state.Err)))
		}
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	user := state.User
	lines = append(lines,
		s.user.Render(userTitle(*user)),
		s.detail.Render(fmt.Sprintf("role: %s   email: %s", roleLabel(user.Role), verifiedLabel(user.EmailVerified))),
		tokenLine(state, opts, s),
	)

	var activity []string
	if !state.IssuedAt.IsZero() {
		activity = append(activity, "issued "+formatClock(state.IssuedAt, opts.Now))
	}
	if !state.LastActivity.IsZero() {
		activity = append(activity, "last activity "+formatClock(state.LastActivity, opts.Now))
	}
	if len(activity) > 0 {
		lines = append(lines, s.meta.Render(strings.Join(activity, "   ")))
	}
	if state.Err != nil {
		lines = append(lines, s.warning.Render(domain.UserMessage(state.Err)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func tokenLine(state application.SessionState, opts SessionOptions, s styles) string {
	label := s.key.Render("access token:")
	if state.ExpiresAt.IsZero() {
		return lipgloss.JoinHorizontal(lipgloss.Top, label, " ", s.meta.Render("expiry unknown"))
	}

	now := opts.Now
	remaining := time.Duration(0)
	if !now.IsZero() {
		remaining = state.ExpiresAt.Sub(now)
	}
	leftPercent := clampPercent(100 * remaining.Seconds() / application.AccessTokenLifetime.Seconds())
	bar := renderProgressBar(100-leftPercent, 24, s)
	meta := lipgloss.NewStyle().Foreground(interpolateColor(leftPercent, 0, 100)).
		Render(formatRemaining(state.ExpiresAt, now))

	parts := []string{label, " ", bar, " ", meta}
	if !state.RefreshAt.IsZero() {
		parts = append(parts, " ", s.meta.Render(fmt.Sprintf("(refresh at %s)", state.RefreshAt.Format("15:04:05"))))
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, parts...)

	if !now.IsZero() && !now.Before(state.ExpiresAt) {
		line += " " + s.warning.Render("[expired]")
	}
	return line
}

func userTitle(user domain.User) string {
	name := strings.TrimSpace(user.Name)
	if name == "" {
		return user.Email
	}
	return fmt.Sprintf("%s <%s>", name, user.Email)
}

func roleLabel(role domain.Role) string {
	if role == "" {
		return "unknown"
	}
	return string(role)
}

func verifiedLabel(verified bool) string {
	if verified {
		return "verified"
	}
	return "not verified"
}

func renderProgressBar(usedPercent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	used := clampPercent(usedPercent)
	filled := int(math.Round(float64(width) * (100.0 - used) / 100.0))
	filled = max(0, min(filled, width))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	return max(0, min(v, 100))
}

// formatRemaining describes how long until t, rounding up to the next whole unit.
func formatRemaining(t, now time.Time) string {
	if now.IsZero() {
		return "expires " + t.Format(time.RFC3339)
	}
	if !t.After(now) {
		return "expired"
	}

	remaining := t.Sub(now)
	switch {
	case remaining < time.Hour:
		return fmt.Sprintf("%s left (%s)", plural(int(math.Ceil(remaining.Minutes())), "minute"), t.Format("15:04"))
	case remaining < 24*time.Hour:
		return fmt.Sprintf("%s left (%s)", plural(int(math.Ceil(remaining.Hours())), "hour"), t.Format("15:04"))
	default:
		return fmt.Sprintf("%s left (%s)", plural(int(math.Ceil(remaining.Hours()/24)), "day"), t.Format("15:04 on 02 Jan"))
	}
}

func formatClock(t, now time.Time) string {
	if now.IsZero() {
		return t.Format(time.RFC3339)
	}

	yearA, monthA, dayA := now.Date()
	yearB, monthB, dayB := t.Date()
	if yearA == yearB && monthA == monthB && dayA == dayB {
		return t.Format("15:04")
	}
	return t.Format("15:04 on 02 Jan")
}

func plural(n int, unit string) string {
	n = max(n, 1)
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// interpolateColor maps value onto the 240..255 greyscale ramp.
func interpolateColor(value, lo, hi float64) lipgloss.Color {
	if hi == lo {
		return lipgloss.Color("255")
	}

	normalized := max(0, min((value-lo)/(hi-lo), 1))
	return lipgloss.Color(fmt.Sprintf("%d", int(240+15*normalized)))
}
