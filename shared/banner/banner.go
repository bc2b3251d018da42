package banner

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

const osbBlue = "\x1b[38;2;0;90;138m" // OpenSearch blue
const reset = "\x1b[0m"

var title = []string{
	`  ___  ____  ____     ___ ___ `,
	` / _ \/ ___|| __ )   / __|_ _|`,
	`| | | \___ \|  _ \  | |   | | `,
	`| |_| |___) | |_) | | |__ | | `,
	` \___/|____/|____/   \___|___|`,
}

// DrawBannerTitle prints the CLI banner. Color is applied only when stdout
// is a terminal.
func DrawBannerTitle() {
	colorize := term.IsTerminal(int(os.Stdout.Fd()))
	for _, line := range title {
		if colorize {
			fmt.Println(osbBlue + line + reset)
		} else {
			fmt.Println(line)
		}
	}
	fmt.Println("  opensearch-benchmark pipeline runner")
	fmt.Println()
}
