package drumsynth

// DeltaDecoder expands the 2-bit adaptive delta code of a bass sample.
// Each code adjusts a step size (the modifier) which is added to a
// second-order prediction of the waveform.
type DeltaDecoder struct {
	data   []byte
	ptr    int
	end    int
	subidx uint8
	word   uint8

	recon1   int8
	recon2   int8
	modifier int8
}

// Reset makes the decoder inactive
func (d *DeltaDecoder) Reset() {
	d.ptr = d.end
}

// Trigger binds a new sample and clears the reconstruction history
func (d *DeltaDecoder) Trigger(s Sample) {
	d.data = s.Data
	if s.Data != nil {
		d.ptr = 1
		d.end = int(s.Len) + 1
	} else {
		d.ptr = 0
		d.end = 0
	}
	if d.Active() {
		d.word = d.fetch(0)
		d.subidx = 4
	}
	d.recon1 = 0
	d.recon2 = 0
	d.modifier = 0
}

// Active reports whether codes remain
func (d *DeltaDecoder) Active() bool {
	return d.ptr != d.end
}

func (d *DeltaDecoder) fetch(i int) uint8 {
	if i < len(d.data) {
		return d.data[i]
	}
	return 0
}

func (d *DeltaDecoder) code() uint8 {
	ret := d.word & 3
	d.word >>= 2
	d.subidx--
	if d.subidx == 0 {
		d.subidx = 4
		// never read at the end sentinel
		if d.ptr+1 != d.end {
			d.word = d.fetch(d.ptr)
		} else {
			d.word = 0
		}
		d.ptr++
	}
	return ret
}

// Next decodes one sample. Once the decoder is inactive it returns 0 and
// leaves its state untouched.
func (d *DeltaDecoder) Next() int8 {
	if !d.Active() {
		return 0
	}

	switch d.code() {
	case 0:
	case 1:
		d.modifier = -d.modifier
	case 2:
		if d.modifier != 0 {
			d.modifier <<= 1
		} else {
			d.modifier = 1
		}
	case 3:
		if d.modifier != 0 {
			d.modifier >>= 1
		} else {
			d.modifier = -1
		}
	}

	// int8 wrap-around is part of the format
	prediction := d.recon1 + d.recon1 - d.recon2
	recon := prediction + d.modifier
	d.recon2 = d.recon1
	d.recon1 = recon
	return recon
}

// Remaining returns how many samples are left before the decoder stops
func (d *DeltaDecoder) Remaining() int {
	if !d.Active() {
		return 0
	}
	return (d.end-d.ptr-1)*4 + int(d.subidx)
}
