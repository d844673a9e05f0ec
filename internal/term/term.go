// Package term has the ANSI helpers used by watch-style commands.
package term

import (
	"fmt"
	"time"
)

const (
	ClearScreen = "\x1b[2J\x1b[H"
	HideCursor  = "\x1b[?25l"
	ShowCursor  = "\x1b[?25h"
)

// Clear wipes the terminal and homes the cursor.
func Clear() { fmt.Print(ClearScreen) }

// Hide hides the cursor.
func Hide() { fmt.Print(HideCursor) }

// Show restores the cursor.
func Show() { fmt.Print(ShowCursor) }

// Timestamp formats the local time as HH:MM:SS for watch headers.
func Timestamp() string {
	return time.Now().Format("15:04:05")
}
