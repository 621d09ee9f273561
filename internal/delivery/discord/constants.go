package discord

const (
	maxAutocompleteChoices = 25

	// Embed colors
	colorGreen   = 0x00FF00 // success
	colorOrange  = 0xFF9900 // notice / already-in-state
	colorRed     = 0xFF0000 // refusal
	colorBlurple = 0x5865F2 // informational listings
)
