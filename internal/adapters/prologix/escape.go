package prologix

const (
	esc  = 0x1B
	cr   = '\r'
	lf   = '\n'
	plus = '+'
)

// escape returns frame with every CR, LF, ESC and '+' prefixed by ESC,
// followed by the LF that ends the data line.
func escape(frame []byte) []byte {
	out := make([]byte, 0, len(frame)+len(frame)/8+1)
	for _, b := range frame {
		switch b {
		case cr, lf, esc, plus:
			out = append(out, esc)
		}
		out = append(out, b)
	}
	return append(out, lf)
}
