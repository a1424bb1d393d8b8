// Package segment cuts profile documents into individual blocks.
//
// Every profile entry in a document starts with the marker "编号" followed by
// an administrator-assigned number. Split keeps the marker and number as the
// block heading and records the block's position among all marker splits.
//
//	blocks := segment.Split("men_100.md", content)
//	for _, b := range blocks {
//	    fmt.Println(core.BlockID(b), len(b.Text))
//	}
package segment
