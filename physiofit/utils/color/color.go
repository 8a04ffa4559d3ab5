// physiofit/utils/color/color.go
package color

import (
	"github.com/fatih/color"
)

var (
	promptColor = color.New(color.FgCyan, color.Bold)
	infoColor   = color.New(color.FgGreen)
	errorColor  = color.New(color.FgRed, color.Bold)
	coachColor  = color.New(color.FgHiYellow, color.Bold)
)

func ColorPrompt(s string) string {
	return promptColor.Sprint(s)
}

func ColorInfo(s string) string {
	return infoColor.Sprint(s)
}

func ColorError(s string) string {
	return errorColor.Sprint(s)
}

func ColorCoach(s string) string {
	return coachColor.Sprint(s)
}

// Disable turns colouring off, e.g. when output is piped.
func Disable() {
	color.NoColor = true
}
