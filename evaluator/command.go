package evaluator

import "strings"

var shellWrappers = map[string]bool{
	"/bin/sh": true, "sh": true, "bash": true, "/bin/bash": true,
	"cmd": true, "cmd.exe": true,
}

// leadingCommandToken parses a full command string into its
// command-of-interest token, unwrapping one layer of shell invocation
// (`/bin/sh -c`, `bash -c`, `cmd /c`).
func leadingCommandToken(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}

	base := baseName(fields[0])
	if !shellWrappers[base] {
		return base
	}

	for i := 1; i < len(fields); i++ {
		f := fields[i]
		if f == "-c" || f == "/c" {
			if i+1 < len(fields) {
				inner := strings.Fields(fields[i+1])
				if len(inner) > 0 {
					return baseName(inner[0])
				}
			}
			return ""
		}
	}

	return base
}

func baseName(path string) string {
	if idx := strings.LastIndexAny(path, "/\\"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
