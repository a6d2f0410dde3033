package opstore

// Kind identifies how an operation's completion result must be interpreted.
type Kind int

const (
	Read Kind = iota
	Writev
	Write
	Recv
	Send
	Timeout
	Poll
	Accept
	Connect
)

func (kind Kind) String() string {
	switch kind {
	case Read:
		return "READ"
	case Writev:
		return "WRITEV"
	case Write:
		return "WRITE"
	case Recv:
		return "RECV"
	case Send:
		return "SEND"
	case Timeout:
		return "TIMEOUT"
	case Poll:
		return "POLL"
	case Accept:
		return "ACCEPT"
	case Connect:
		return "CONNECT"
	default:
		return ""
	}
}
