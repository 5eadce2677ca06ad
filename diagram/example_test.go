package diagram_test

import (
	"fmt"

	"github.com/ByLCY/bytefield/diagram"
)

func ExampleDiagram_Render() {
	d := diagram.New().
		AddField("Type", 1).
		AddField("Code", 1).
		AddField("Checksum", 2)

	blocks, err := d.Render(2, 0)
	if err != nil {
		panic(err)
	}
	for _, b := range blocks {
		fmt.Println(b)
	}

	// Output:
	// ┌─┬─┐
	// │0│1│
	// ├─┼─┤
	// │ │C│
	// │T│o│
	// │y│d│
	// │p│e│
	// │e│ │
	// └─┴─┘
	// ┌─┬─┐
	// │2│3│
	// ├─┴─┤
	// │   │
	// │Che│
	// │cks│
	// │um │
	// └───┘
}
