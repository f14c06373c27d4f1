package hub

// Every pushed message is a single text frame whose first byte tags the
// payload.
const (
	TagTopology byte = 'd'
	TagBridges  byte = 'b'
	TagLog      byte = 'l'
	TagNotice   byte = 'q'
)

func Message(tag byte, body string) []byte {
	msg := make([]byte, 0, len(body)+1)
	msg = append(msg, tag)
	return append(msg, body...)
}

const (
	NoticeLinkUp   = "Connection to DMRlink Established"
	NoticeLinkDown = "Connection to DMRlink Lost"
)
