package texcodec

// Fake is a test double satisfying Encoder without shelling out, letting
// the writer pipeline's basisu-enabled paths be exercised in tests that
// cannot assume the real executable is installed.
type Fake struct {
	Payload []byte
	Err     error
	Calls   []Options
}

func (f *Fake) Encode(opts Options) ([]byte, error) {
	f.Calls = append(f.Calls, opts)
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Payload != nil {
		return f.Payload, nil
	}
	return []byte("\xabKTX 20\r\n\x1a\n\x00\x00\x00\x00"), nil
}
