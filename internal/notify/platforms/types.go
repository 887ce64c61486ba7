package platforms

import "context"

type Message struct {
	Title string
	Body  string
}

type Adapter interface {
	Name() string
	Send(ctx context.Context, endpoint, secret string, msg Message) error
}
