package platform

import "fmt"

// CursorStyle is the pointer shape shown over the window.
type CursorStyle int

const (
	CursorArrow CursorStyle = iota
	CursorIBeam
	CursorCrosshair
	CursorClosedHand
	CursorOpenHand
	CursorPointingHand
	CursorResizeLeft
	CursorResizeRight
	CursorResizeLeftRight
	CursorResizeUp
	CursorResizeDown
	CursorResizeUpDown
	CursorResizeColumn
	CursorResizeRow
	CursorResizeUpLeftDownRight
	CursorResizeUpRightDownLeft
	CursorIBeamVertical
	CursorNotAllowed
	CursorDragLink
	CursorDragCopy
	CursorContextMenu
	CursorNone

	cursorCount
)

var cursorCSS = [cursorCount]string{
	CursorArrow:                 "default",
	CursorIBeam:                 "text",
	CursorCrosshair:             "crosshair",
	CursorClosedHand:            "grabbing",
	CursorOpenHand:              "grab",
	CursorPointingHand:          "pointer",
	CursorResizeLeft:            "w-resize",
	CursorResizeRight:           "e-resize",
	CursorResizeLeftRight:       "ew-resize",
	CursorResizeUp:              "n-resize",
	CursorResizeDown:            "s-resize",
	CursorResizeUpDown:          "ns-resize",
	CursorResizeColumn:          "col-resize",
	CursorResizeRow:             "row-resize",
	CursorResizeUpLeftDownRight: "nwse-resize",
	CursorResizeUpRightDownLeft: "nesw-resize",
	CursorIBeamVertical:         "vertical-text",
	CursorNotAllowed:            "not-allowed",
	CursorDragLink:              "alias",
	CursorDragCopy:              "copy",
	CursorContextMenu:           "context-menu",
	CursorNone:                  "none",
}

// CSS returns the CSS cursor keyword. Unknown styles map to "default".
func (c CursorStyle) CSS() string {
	if c < 0 || c >= cursorCount {
		return "default"
	}
	return cursorCSS[c]
}

func (c CursorStyle) String() string {
	if c < 0 || c >= cursorCount {
		return fmt.Sprintf("CursorStyle(%d)", int(c))
	}
	return cursorCSS[c]
}
