// Command check_corpus validates the markdown test corpus under test/.
// It extracts every test case the same way the test runner does and reports
// structural problems (missing input fences, unknown fence languages,
// unparseable assertion s-expressions) without running the front end.
//
// Usage: go run ./scripts [glob]
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Pecco-314/pecco-lang/sexy"
)

func main() {
	pattern := "test/*_test.md"
	if len(os.Args) > 1 {
		pattern = os.Args[1]
	}

	files, err := filepath.Glob(pattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "check_corpus: bad glob %q: %v\n", pattern, err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "check_corpus: no corpus files match %q\n", pattern)
		os.Exit(1)
	}

	failed := false
	total := 0

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "check_corpus: %s: %v\n", file, err)
			failed = true
			continue
		}

		cases, err := sexy.ExtractTestCases(string(content))
		if err != nil {
			fmt.Fprintf(os.Stderr, "check_corpus: %s: %v\n", file, err)
			failed = true
			continue
		}

		assertions := 0
		for _, tc := range cases {
			assertions += len(tc.Assertions)
		}
		fmt.Printf("%s: %d cases, %d assertions\n", file, len(cases), assertions)
		total += len(cases)
	}

	if failed {
		os.Exit(1)
	}
	fmt.Printf("%d cases total\n", total)
}
