package model

type EventKind uint8

const (
	// BoardChanged follows every committed mutation, including a finished promotion.
	BoardChanged EventKind = iota + 1
	// PromotionRequired is sent once when a pawn reaches the last rank without a
	// promotion type; the turn stays with the mover until FinishPromotion.
	PromotionRequired
)

func (k EventKind) String() string {
	switch k {
	case BoardChanged:
		return "boardChanged"
	case PromotionRequired:
		return "promotionRequired"
	}
	return "unknown"
}

type Event struct {
	Kind  EventKind
	Row   int
	Col   int
	Color PieceColor
}

type Observer interface {
	Notify(Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Notify(e Event) {
	f(e)
}
