package tui

import "github.com/rgehrsitz/nestegg/internal/tui/tuistyles"

// Styles used by the application frame. Scenes and components import
// tuistyles directly, which keeps them free of an import cycle with tui.
var (
	AppStyle       = tuistyles.AppStyle
	TitleStyle     = tuistyles.TitleStyle
	SubtitleStyle  = tuistyles.SubtitleStyle
	StatusBarStyle = tuistyles.StatusBarStyle
	StatusKeyStyle = tuistyles.StatusKeyStyle
	BorderStyle    = tuistyles.BorderStyle
	ErrorStyle     = tuistyles.ErrorStyle
)
