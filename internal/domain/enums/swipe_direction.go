package enums

type SwipeDirection string

const (
	SwipeDirectionLeft  SwipeDirection = "left"
	SwipeDirectionRight SwipeDirection = "right"
)

func (d SwipeDirection) Valid() bool {
	return d == SwipeDirectionLeft || d == SwipeDirectionRight
}
