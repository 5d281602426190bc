// Package dbf reads and appends records of dBASE style table files.
//
// A table file starts with a 32 byte header followed by one 32 byte
// descriptor per column and the terminator 0x0D 0x00. Records of
// RecordLength bytes follow at HeaderLength. Byte 0 of a record is the
// deletion flag (' ' active, '*' deleted); the remaining bytes are the field
// values in descriptor order. Multi-byte integers are little-endian.
//
//	t, err := dbf.Open("people.dbf")
//	if err != nil {
//		return err
//	}
//	defer t.Close()
//
//	buf := make([]byte, t.RecordLength())
//	for {
//		if _, err := t.ReadNext(buf); errors.Is(err, dbf.ErrEndOfTable) {
//			break
//		} else if err != nil {
//			return err
//		}
//		name, _ := t.FieldValue(buf, 0)
//		fmt.Printf("%s\n", name)
//	}
//
// The package neither interprets field types nor the deletion flag; see
// package mapping for typed access.
//
// # Memo files
//
// Tables whose version byte has bit 7 set reference a companion memo file.
// Memo files are not read or written by this package. Their layout, for
// reference: a 512 byte header holding the next free block (u32) at 0 and the
// block size (u16) at 6, followed by blocks that start with a signature (u32,
// 0 picture, 1 text) and a memo length (u32), then the memo text. Integers in
// memo files are stored big-endian.
package dbf
