package formatter

import (
	"fmt"
	"strings"
)

// SystemInstruction asks the model for a single commit subject line.
const SystemInstruction = `You are a Git commit message generator. Read the staged diff sent by the user and reply with exactly one line that summarizes it.
Rules:
- Use the imperative mood ("add", "fix", "remove"), not past tense.
- Be concise: no more than 50 words.
- Do not add a type or scope prefix such as "feat:" or "fix(api):"; it is added automatically.
- Do not wrap the line in quotes or backticks and do not add any explanation.`

// Prefix builds the conventional header that precedes the message body.
func Prefix(commitType, scope string) string {
	return fmt.Sprintf("%s (%s): ", commitType, scope)
}

// CleanMessage reduces model output to its first non-empty line and strips
// wrapping quotes or backticks.
func CleanMessage(message string) string {
	line := ""
	for _, l := range strings.Split(message, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}
	for len(line) >= 2 {
		first, last := line[0], line[len(line)-1]
		if first != last || !strings.ContainsRune("\"'`", rune(first)) {
			break
		}
		line = strings.TrimSpace(line[1 : len(line)-1])
	}
	return line
}
