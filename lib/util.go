package lib

import "reflect"
import "strings"
import "unsafe"

// Parsecsv convert a string of comma separated values into list of
// string of values.
func Parsecsv(input string) []string {
	if input == "" {
		return nil
	}
	ss := strings.Split(input, ",")
	outs := make([]string, 0)
	for _, s := range ss {
		s = strings.Trim(s, " \t\r\n")
		if s == "" {
			continue
		}
		outs = append(outs, s)
	}
	return outs
}

// Memcpy copy memory block of length `ln` from `src` to `dst`. This
// function is useful if memory block is obtained outside golang
// runtime.
func Memcpy(dst, src unsafe.Pointer, ln int) int {
	var srcnd, dstnd []byte
	srcsl := (*reflect.SliceHeader)(unsafe.Pointer(&srcnd))
	srcsl.Len, srcsl.Cap = ln, ln
	srcsl.Data = (uintptr)(src)
	dstsl := (*reflect.SliceHeader)(unsafe.Pointer(&dstnd))
	dstsl.Len, dstsl.Cap = ln, ln
	dstsl.Data = (uintptr)(dst)
	return copy(dstnd, srcnd)
}

// Blockbytes view a memory block of length `ln` as a byte slice.
// The slice aliases the block, it is valid only while the block is
// live.
func Blockbytes(ptr unsafe.Pointer, ln int) []byte {
	var block []byte
	sl := (*reflect.SliceHeader)(unsafe.Pointer(&block))
	sl.Data, sl.Len, sl.Cap = (uintptr)(ptr), ln, ln
	return block
}

// Fillblock write `c` to every byte of a memory block of length
// `ln`.
func Fillblock(ptr unsafe.Pointer, ln int, c byte) {
	block := Blockbytes(ptr, ln)
	for i := range block {
		block[i] = c
	}
}
