package testutil

// Tiny hand-assembled WebAssembly modules for exercising host modules
// without a guest toolchain. Each module imports one function from the
// host module and exports a driver that calls it.

const (
	wasmI32 byte = 0x7f
	wasmI64 byte = 0x7e

	// RequestOffset is where caller modules place their request bytes.
	RequestOffset = 16
)

// AddCallerModule returns a module importing host.add(i32, i32) -> i32 and
// exporting sum(i32, i32) -> i32 that forwards to it.
func AddCallerModule(host string) []byte {
	return wasmModule(
		vecSection(0x01, funcType([]byte{wasmI32, wasmI32}, []byte{wasmI32})),
		vecSection(0x02, importFunc(host, "add", 0)),
		vecSection(0x03, uleb(0)),
		vecSection(0x07, export("sum", 0x00, 1)),
		vecSection(0x0a, codeEntry(0x20, 0x00, 0x20, 0x01, 0x10, 0x00, 0x0b)),
	)
}

// InvokerCallerModule returns a module importing host.function(i64) -> i64
// and exporting memory, a bump allocator "allocate" and run() -> i64, which
// calls the import with request placed at RequestOffset and returns its
// packed response.
func InvokerCallerModule(host, function string, request []byte) []byte {
	heap := alignUp(RequestOffset+len(request), 8)
	packed := int64(RequestOffset)<<32 | int64(len(request))

	run := append([]byte{0x42}, sleb(packed)...)
	run = append(run, 0x10, 0x00, 0x0b)

	return wasmModule(
		vecSection(0x01,
			funcType([]byte{wasmI64}, []byte{wasmI64}),
			funcType([]byte{wasmI32}, []byte{wasmI32}),
			funcType(nil, []byte{wasmI64}),
		),
		vecSection(0x02, importFunc(host, function, 0)),
		vecSection(0x03, uleb(1), uleb(2)),
		vecSection(0x05, memoryPages(heap)),
		vecSection(0x06, mutableI32Global(int64(heap))),
		vecSection(0x07,
			export("memory", 0x02, 0),
			export("allocate", 0x00, 1),
			export("run", 0x00, 2),
		),
		vecSection(0x0a,
			// old := heap; heap += size; return old
			codeEntry(0x23, 0x00, 0x23, 0x00, 0x20, 0x00, 0x6a, 0x24, 0x00, 0x0b),
			codeEntry(run...),
		),
		vecSection(0x0b, dataSegment(RequestOffset, request)),
	)
}

// LogCallerModule returns a module importing host.log_message(i64) and
// exporting memory and run(), which sends record to the import.
func LogCallerModule(host string, record []byte) []byte {
	packed := int64(RequestOffset)<<32 | int64(len(record))

	run := append([]byte{0x42}, sleb(packed)...)
	run = append(run, 0x10, 0x00, 0x0b)

	return wasmModule(
		vecSection(0x01,
			funcType([]byte{wasmI64}, nil),
			funcType(nil, nil),
		),
		vecSection(0x02, importFunc(host, "log_message", 0)),
		vecSection(0x03, uleb(1)),
		vecSection(0x05, memoryPages(RequestOffset+len(record))),
		vecSection(0x07,
			export("memory", 0x02, 0),
			export("run", 0x00, 1),
		),
		vecSection(0x0a, codeEntry(run...)),
		vecSection(0x0b, dataSegment(RequestOffset, record)),
	)
}

// InitializerModule returns a module with no imports whose _initialize
// export sets a global that ready() -> i32 reports.
func InitializerModule() []byte {
	return wasmModule(
		vecSection(0x01,
			funcType(nil, nil),
			funcType(nil, []byte{wasmI32}),
		),
		vecSection(0x03, uleb(0), uleb(1)),
		vecSection(0x06, mutableI32Global(0)),
		vecSection(0x07,
			export("_initialize", 0x00, 0),
			export("ready", 0x00, 1),
		),
		vecSection(0x0a,
			codeEntry(0x41, 0x01, 0x24, 0x00, 0x0b),
			codeEntry(0x23, 0x00, 0x0b),
		),
	)
}

func wasmModule(sections ...[]byte) []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	for _, s := range sections {
		out = append(out, s...)
	}
	return out
}

func vecSection(id byte, entries ...[]byte) []byte {
	content := uleb(uint64(len(entries)))
	for _, e := range entries {
		content = append(content, e...)
	}
	out := append([]byte{id}, uleb(uint64(len(content)))...)
	return append(out, content...)
}

func funcType(params, results []byte) []byte {
	out := append([]byte{0x60}, uleb(uint64(len(params)))...)
	out = append(out, params...)
	out = append(out, uleb(uint64(len(results)))...)
	return append(out, results...)
}

func importFunc(module, field string, typeIdx uint64) []byte {
	out := append(wasmName(module), wasmName(field)...)
	out = append(out, 0x00)
	return append(out, uleb(typeIdx)...)
}

func export(name string, kind byte, idx uint64) []byte {
	out := append(wasmName(name), kind)
	return append(out, uleb(idx)...)
}

func memoryPages(minBytes int) []byte {
	pages := minBytes/65536 + 2
	return append([]byte{0x00}, uleb(uint64(pages))...)
}

func mutableI32Global(init int64) []byte {
	out := []byte{wasmI32, 0x01, 0x41}
	out = append(out, sleb(init)...)
	return append(out, 0x0b)
}

func codeEntry(instrs ...byte) []byte {
	body := append([]byte{0x00}, instrs...) // no locals
	return append(uleb(uint64(len(body))), body...)
}

func dataSegment(offset int64, data []byte) []byte {
	out := []byte{0x00, 0x41}
	out = append(out, sleb(offset)...)
	out = append(out, 0x0b)
	out = append(out, uleb(uint64(len(data)))...)
	return append(out, data...)
}

func wasmName(s string) []byte {
	return append(uleb(uint64(len(s))), s...)
}

func uleb(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func sleb(v int64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func alignUp(n, to int) int {
	return (n + to - 1) / to * to
}
