// Package encoder implements §4.4-§4.7: the two-pass assembler driver,
// instruction codegen (§4.6), and directive codegen (§4.7).
package encoder

// MaxIncludeDepth bounds recursive .include assembly, as a belt-and-braces
// backstop alongside the include-stack cycle guard (§5, §9).
const MaxIncludeDepth = 64

// MaxROMSize is the largest byte stream that fits below 4096 bytes of RAM
// once the 0x200 load offset is reserved (§6).
const MaxROMSize = 4096 - 0x200
