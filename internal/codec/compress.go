package codec

import "bytes"

// LZW "compress" coding, .Z style: a three byte header (0x1F 0x9D, then a
// flag byte carrying the maximum code width) followed by variable-width
// codes packed least-significant-bit first. The dictionary is seeded with
// the 256 single-byte strings; code 256 is the block-mode clear code and is
// reserved, new entries start at 257. The code width starts at 9 bits and
// grows as the dictionary grows, up to maxWidth.
//
// This coding is advertised by almost nothing on the modern web. The codec
// is kept complete (and bit-exact in both directions) so a "compress"
// labeled body still decodes, but the client never offers it in
// Accept-Encoding: the wider ecosystem dropped interoperable
// implementations decades ago.

const (
	compressMagic0 = 0x1f
	compressMagic1 = 0x9d
	compressBlock  = 0x80 // flag bit: block mode, clear code in use

	lzwClearCode = 256
	lzwFirstCode = 257
	lzwMinWidth  = 9
	lzwMaxWidth  = 16
	lzwMaxCode   = 1<<lzwMaxWidth - 1
)

type bitWriter struct {
	buf   bytes.Buffer
	acc   uint32
	nbits uint
}

func (w *bitWriter) write(code, width int) {
	w.acc |= uint32(code) << w.nbits
	w.nbits += uint(width)
	for w.nbits >= 8 {
		w.buf.WriteByte(byte(w.acc))
		w.acc >>= 8
		w.nbits -= 8
	}
}

func (w *bitWriter) flush() {
	if w.nbits > 0 {
		w.buf.WriteByte(byte(w.acc))
		w.acc, w.nbits = 0, 0
	}
}

type bitReader struct {
	data  []byte
	pos   int
	acc   uint32
	nbits uint
}

func (r *bitReader) read(width int) (int, bool) {
	for r.nbits < uint(width) {
		if r.pos >= len(r.data) {
			return 0, false
		}
		r.acc |= uint32(r.data[r.pos]) << r.nbits
		r.pos++
		r.nbits += 8
	}
	code := int(r.acc & (1<<uint(width) - 1))
	r.acc >>= uint(width)
	r.nbits -= uint(width)
	return code, true
}

// codeWidth returns the width in effect for the n-th code of a stream
// (1-based). The encoder assigns dictionary entry 256+n after emitting code
// n, so before code n is transferred the highest code either side may need
// to represent is 255+n; both sides derive the width from that bound, which
// keeps them in lockstep without any handshake.
func codeWidth(n int) int {
	width := lzwMinWidth
	for 255+n >= 1<<width && width < lzwMaxWidth {
		width++
	}
	return width
}

// EncodeCompress compresses in to the .Z wire form. An empty input yields
// just the header.
func EncodeCompress(in []byte) []byte {
	w := &bitWriter{}
	w.buf.WriteByte(compressMagic0)
	w.buf.WriteByte(compressMagic1)
	w.buf.WriteByte(compressBlock | lzwMaxWidth)

	dict := make(map[string]int, 512)
	for i := 0; i < 256; i++ {
		dict[string([]byte{byte(i)})] = i
	}
	next := lzwFirstCode
	emitted := 0

	var cur []byte
	for _, c := range in {
		ext := string(append(cur, c))
		if _, ok := dict[ext]; ok {
			cur = append(cur, c)
			continue
		}
		emitted++
		w.write(dict[string(cur)], codeWidth(emitted))
		if next <= lzwMaxCode {
			dict[ext] = next
			next++
		}
		cur = cur[:0]
		cur = append(cur, c)
	}
	if len(cur) > 0 {
		emitted++
		w.write(dict[string(cur)], codeWidth(emitted))
	}
	w.flush()
	return w.buf.Bytes()
}

// DecodeCompress inflates a .Z stream produced by EncodeCompress (or by a
// classic compress(1) that never emits a clear code). Inputs without the
// magic header, or streams that turn out corrupt, are returned unchanged
// with decoded=false.
func DecodeCompress(in []byte) (out []byte, decoded bool) {
	if len(in) < 3 || in[0] != compressMagic0 || in[1] != compressMagic1 {
		return in, false
	}
	maxWidth := int(in[2] &^ compressBlock)
	if maxWidth < lzwMinWidth || maxWidth > lzwMaxWidth {
		return in, false
	}

	r := &bitReader{data: in[3:]}
	dict := make([][]byte, 256, 512)
	for i := range dict {
		dict[i] = []byte{byte(i)}
	}
	// entries 256 (clear) and 257.. are appended as codes arrive
	dict = append(dict, nil)

	var buf bytes.Buffer
	var prev []byte
	read := 0
	for {
		read++
		code, ok := r.read(codeWidth(read))
		if !ok {
			return buf.Bytes(), true // end of stream
		}
		if code == lzwClearCode {
			// block-mode reset; EncodeCompress never emits this, foreign
			// streams pad to a byte boundary here in ways this buffered
			// decoder does not model
			return in, false
		}
		var entry []byte
		switch {
		case code < len(dict) && dict[code] != nil:
			entry = dict[code]
		case code == len(dict) && prev != nil:
			// the KwKwK case: the code names the entry being defined
			entry = append(append([]byte{}, prev...), prev[0])
		default:
			return in, false
		}
		buf.Write(entry)
		if prev != nil && len(dict) <= lzwMaxCode {
			dict = append(dict, append(append([]byte{}, prev...), entry[0]))
		}
		prev = entry
	}
}
