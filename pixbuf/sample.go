package pixbuf

// Sample is one unpacked pixel. Below 24 bits it is a palette index in
// [0, 2^depth). At 24 bits it holds the three stored channel bytes c0, c1,
// c2 as c0<<16 | c1<<8 | c2.
type Sample uint32

// RGB builds a 24-bit sample from its channel bytes in stored order.
func RGB(c0, c1, c2 byte) Sample {
	return Sample(c0)<<16 | Sample(c1)<<8 | Sample(c2)
}

// Channels splits a 24-bit sample into its channel bytes in stored order.
func (s Sample) Channels() (c0, c1, c2 byte) {
	return byte(s >> 16), byte(s >> 8), byte(s)
}
