// Package bitstream implements the MSB-first bit writer and reader used by
// the BIFS codec.
//
// Values are appended most-significant bit first; a partially filled final
// byte is padded with zero bits when the buffer is read out. Fixed-size
// floats are written as their IEEE-754 big-endian bit patterns.
//
// A sub-stream is simply a fresh Writer: encode into it, then embed the
// result of Bytes in the parent stream.
package bitstream
