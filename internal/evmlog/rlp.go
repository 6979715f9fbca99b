package evmlog

// Item kinds declared in https://ethereum.org/en/developers/docs/data-structures-and-encoding/rlp/.
const (
	KindString = iota
	KindList
)

const (
	errTruncated    = "truncated RLP item"
	errNonCanonical = "non-canonical RLP length"
)

// ReadString reads an RLP string item from the start of b. Returns the string
// payload, the total number of bytes consumed and exception.
func ReadString(b []byte) ([]byte, int, string) {
	kind, off, ln, e := readHeader(b)
	if e != "" {
		return nil, 0, e
	}
	if kind != KindString {
		return nil, 0, "expected RLP string, got list"
	}
	return b[off : off+ln], off + ln, ""
}

// ReadList reads an RLP list item from the start of b. Returns the raw list
// payload (concatenated inner items), the total number of bytes consumed and
// exception.
func ReadList(b []byte) ([]byte, int, string) {
	kind, off, ln, e := readHeader(b)
	if e != "" {
		return nil, 0, e
	}
	if kind != KindList {
		return nil, 0, "expected RLP list, got string"
	}
	return b[off : off+ln], off + ln, ""
}

// readHeader decodes the item header at the start of b. Returns item kind,
// payload offset, payload length and exception.
func readHeader(b []byte) (int, int, int, string) {
	if len(b) == 0 {
		return 0, 0, 0, errTruncated
	}

	tag := int(b[0])
	switch {
	case tag < 0x80: // single byte, the item is its own payload
		return KindString, 0, 1, ""
	case tag < 0xb8: // short string
		ln := tag - 0x80
		if len(b) < 1+ln {
			return 0, 0, 0, errTruncated
		}
		if ln == 1 && int(b[1]) < 0x80 {
			return 0, 0, 0, errNonCanonical
		}
		return KindString, 1, ln, ""
	case tag < 0xc0: // long string
		lnSize := tag - 0xb7
		ln, e := readLength(b, lnSize)
		if e != "" {
			return 0, 0, 0, e
		}
		return KindString, 1 + lnSize, ln, ""
	case tag < 0xf8: // short list
		ln := tag - 0xc0
		if len(b) < 1+ln {
			return 0, 0, 0, errTruncated
		}
		return KindList, 1, ln, ""
	default: // long list
		lnSize := tag - 0xf7
		ln, e := readLength(b, lnSize)
		if e != "" {
			return 0, 0, 0, e
		}
		return KindList, 1 + lnSize, ln, ""
	}
}

// readLength decodes a big-endian multi-byte payload length occupying lnSize
// bytes after the tag and checks it against the remaining input.
func readLength(b []byte, lnSize int) (int, string) {
	if len(b) < 1+lnSize {
		return 0, errTruncated
	}
	if int(b[1]) == 0 {
		return 0, errNonCanonical
	}
	ln := 0
	for i := 0; i < lnSize; i++ {
		ln = ln<<8 | int(b[1+i])
	}
	if ln < 56 {
		return 0, errNonCanonical
	}
	if len(b) < 1+lnSize+ln {
		return 0, errTruncated
	}
	return ln, ""
}
