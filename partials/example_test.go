package partials_test

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-partials/partials"
)

func ExampleRead() {
	const file = `par-text-frame-format
point-type index frequency amplitude
partials-count 2
frame-count 3
frame-data
0.00 2 0 440.0 0.2 1 220.0 0.5
0.01 2 0 441.0 0.2 1 220.0 0.5
0.02 1 1 220.0 0.5
`
	c, err := partials.Read(strings.NewReader(file))
	if err != nil {
		fmt.Println(err)
		return
	}
	for i, p := range c.Partials() {
		fmt.Printf("%d: mid=%.1f Hz range=[%.0f, %.0f] level=%.2f\n",
			i, p.MidFreq, p.LowestFreq, p.HighestFreq, p.MidLevel)
	}
	// Output:
	// 0: mid=220.0 Hz range=[220, 220] level=0.50
	// 1: mid=440.5 Hz range=[440, 441] level=0.20
}
