package compiler

import "github.com/Novokreschennih/AI-Partner-Integrator/pkg/workflow"

// Canvas layout. Block columns are columnWidth apart; the four node kinds land on
// distinct x offsets modulo columnWidth, so no two nodes share a position.
const (
	baseY       = 300
	columnWidth = 350
	rowHeight   = 200
	firstColumn = 750
)

var (
	triggerPosition = workflow.Position{250, baseY}
	routerPosition  = workflow.Position{500, baseY}
)

func deliveryPosition(blockIndex, messageIndex int) workflow.Position {
	return workflow.Position{firstColumn + columnWidth*blockIndex, baseY + rowHeight*messageIndex}
}

// delayPosition sits half a column left of the delivery it precedes.
func delayPosition(blockIndex, messageIndex int) workflow.Position {
	p := deliveryPosition(blockIndex, messageIndex)
	p[0] -= columnWidth / 2
	return p
}
