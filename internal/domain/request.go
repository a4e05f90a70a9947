package domain

// Request holds raw user input before validation.
type Request struct {
	Device     string
	Execute    bool
	Run        bool
	Load       bool
	Addr       string
	File       string
	FromHeader bool
}

// ReadFunc reads a whole file into memory.
type ReadFunc func(path string) ([]byte, error)

// Resolve validates the request and builds the Operation it selects.
// For a load, read is called only after every other check has passed.
func (r Request) Resolve(read ReadFunc) (DeviceAddress, Operation, error) {
	device, err := ParseDevice(r.Device)
	if err != nil {
		return 0, nil, err
	}

	selected := 0
	for _, on := range []bool{r.Execute, r.Run, r.Load} {
		if on {
			selected++
		}
	}
	if selected == 0 {
		return 0, nil, CommandError("one of --execute, --run or --load is required")
	}
	if selected > 1 {
		return 0, nil, CommandError("only one of --execute, --run or --load may be used")
	}

	var (
		addr    uint16
		hasAddr bool
	)
	if r.Addr != "" {
		addr, err = ParseAddress(r.Addr)
		if err != nil {
			return 0, nil, err
		}
		hasAddr = true
	}

	if r.File != "" && !r.Load {
		return 0, nil, CommandError("file path can only be used with load command")
	}
	if r.FromHeader && !r.Load {
		return 0, nil, CommandError("--from-header can only be used with load command")
	}

	switch {
	case r.Execute:
		if !hasAddr {
			return 0, nil, CommandError("--addr must be specified with --execute")
		}
		return device, Execute{Address: addr}, nil

	case r.Run:
		if hasAddr {
			return 0, nil, CommandError("cannot use --addr with --run command")
		}
		return device, Run{}, nil
	}

	if r.File == "" {
		return 0, nil, CommandError("file path required for load command")
	}
	if hasAddr && r.FromHeader {
		return 0, nil, CommandError("cannot use --addr with --from-header")
	}
	source := FromFileHeader()
	if hasAddr {
		source = ExplicitAddress(addr)
	}
	if read == nil {
		return 0, nil, CommandError("no file reader for load command")
	}
	data, err := read(r.File)
	if err != nil {
		return 0, nil, ClassifyReadError(r.File, err)
	}
	return device, Load{Source: source, Data: data, Path: r.File}, nil
}
