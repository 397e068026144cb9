package audio

import "encoding/binary"

// Resample converts interleaved 16-bit little-endian PCM from one sample
// rate to another using linear interpolation. Channels are resampled
// independently.
func Resample(in []byte, channels, from, to int) []byte {
	if from == to || from <= 0 || to <= 0 || channels <= 0 {
		return in
	}

	frameSize := channels * 2
	inFrames := len(in) / frameSize
	if inFrames < 2 {
		return nil
	}

	outFrames := int(int64(inFrames) * int64(to) / int64(from))
	out := make([]byte, outFrames*frameSize)
	ratio := float64(from) / float64(to)

	for i := 0; i < outFrames; i++ {
		// Source position in the input stream (fractional).
		srcPos := float64(i) * ratio
		srcIdx := int(srcPos)
		frac := srcPos - float64(srcIdx)

		for ch := 0; ch < channels; ch++ {
			s0 := readSample(in, srcIdx, channels, ch)
			s1 := readSample(in, srcIdx+1, channels, ch)
			sample := int16(float64(s0) + frac*(float64(s1)-float64(s0)))
			binary.LittleEndian.PutUint16(out[(i*channels+ch)*2:], uint16(sample))
		}
	}

	return out
}

func readSample(buf []byte, frame, channels, ch int) int16 {
	frames := len(buf) / (channels * 2)
	if frame >= frames {
		// Clamp to last frame.
		frame = frames - 1
	}
	if frame < 0 {
		return 0
	}
	off := (frame*channels + ch) * 2
	return int16(binary.LittleEndian.Uint16(buf[off:]))
}
