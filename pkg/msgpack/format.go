package msgpack

// Wire-format tag bytes. These values are fixed by the MessagePack
// specification and must never change.
const (
	tagNil   byte = 0xc0
	tagFalse byte = 0xc2
	tagTrue  byte = 0xc3

	tagBin8  byte = 0xc4
	tagBin16 byte = 0xc5
	tagBin32 byte = 0xc6

	tagExt8  byte = 0xc7
	tagExt16 byte = 0xc8
	tagExt32 byte = 0xc9

	tagFloat32 byte = 0xca
	tagFloat64 byte = 0xcb

	tagUint8  byte = 0xcc
	tagUint16 byte = 0xcd
	tagUint32 byte = 0xce
	tagUint64 byte = 0xcf

	tagInt8  byte = 0xd0
	tagInt16 byte = 0xd1
	tagInt32 byte = 0xd2
	tagInt64 byte = 0xd3

	tagFixExt1  byte = 0xd4
	tagFixExt2  byte = 0xd5
	tagFixExt4  byte = 0xd6
	tagFixExt8  byte = 0xd7
	tagFixExt16 byte = 0xd8

	tagStr8  byte = 0xd9
	tagStr16 byte = 0xda
	tagStr32 byte = 0xdb

	tagArray16 byte = 0xdc
	tagArray32 byte = 0xdd

	tagMap16 byte = 0xde
	tagMap32 byte = 0xdf
)

// Fixed-encoding ranges, where the tag byte itself carries the value or
// the element count.
const (
	posFixintMax byte = 0x7f
	negFixintMin byte = 0xe0

	fixmapLow  byte = 0x80
	fixmapHigh byte = 0x8f
	fixmapMask byte = 0x80

	fixarrayLow  byte = 0x90
	fixarrayHigh byte = 0x9f
	fixarrayMask byte = 0x90

	fixstrLow  byte = 0xa0
	fixstrHigh byte = 0xbf
	fixstrMask byte = 0xa0
)

// Low-bit masks extracting the embedded length from a fixed encoding.
const (
	fixstrLenMask   byte = 0x1f
	fixCountMask    byte = 0x0f
	fixstrMaxLen         = 32
	fixContainerMax      = 16
)
