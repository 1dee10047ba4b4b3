package report

import (
	"fmt"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// The display functions below must be called with the reporter locked.

// displayTagged prints a highlighted tag followed by a colored message.
func displayTagged(style *pterm.Style, color pterm.Color, tag, message string) {
	fmt.Fprintln(rep.out, style.Sprint(tag)+" "+color.Sprint(message))
}

func displayInfo(tag, message string) {
	displayTagged(InfoStyleBG, InfoColorFG, tag, message)
}

func displayWarning(message string) {
	displayTagged(WarnStyleBG, WarnColorFG, "warning", message)
}

// displayStdError displays a standard Go error.
func displayStdError(tag string, err error) {
	displayTagged(ErrorStyleBG, ErrorColorFG, tag, "error: "+err.Error())
}

// displayFatal displays a fatal error message.
func displayFatal(message string) {
	displayTagged(ErrorStyleBG, ErrorColorFG, "fatal error", message)
}

// displayICE displays an internal error message.
func displayICE(message string) {
	displayTagged(ErrorStyleBG, ErrorColorFG, "internal error", message)
	fmt.Fprintln(rep.out, "This error was not supposed to happen: please open an issue with the output above.")
}
