// Package protocol implements the kvwire client codec.
//
// Every message travels in a frame: a 4-byte little-endian length followed
// by that many payload bytes, never more than MaxMsgSize.
//
// Request payload:
//
//	[argc u32]{[len u32][utf-8 bytes]}*argc
//
// Response payload is a single tagged value:
//
//	0 nil    -
//	1 err    [code i32][len i32][msg]
//	2 str    [len u32][bytes]
//	3 int    [i64]
//	4 dbl    [f64]
//	5 arr    [n u32][n values]
//	6 kv     [total u32][klen u32][key][vlen u32][val]
package protocol
