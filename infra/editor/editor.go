package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// EnvEditor prepares an external editor command using $EDITOR (fallback: "vi").
// It does not run the editor; callers hand the returned *exec.Cmd to
// tea.ExecProcess so Bubble Tea suspends raw terminal mode.
type EnvEditor struct{}

// NewEnvEditor creates an EnvEditor.
func NewEnvEditor() *EnvEditor {
	return &EnvEditor{}
}

const instructionEnd = "-->"

func instructionComment(heading string) string {
	var b strings.Builder
	b.WriteString("<!--\n")
	if heading = strings.TrimSpace(heading); heading != "" {
		b.WriteString("duelterm: " + heading + "\n\n")
	}
	b.WriteString("- SAVE and EXIT to submit (e.g. :wq in vi).\n")
	b.WriteString("- Emptying the file or making NO CHANGES will cancel.\n")
	b.WriteString("- Lines inside this block are ignored.\n")
	b.WriteString(instructionEnd + "\n\n")
	return b.String()
}

// Cmd prepares an *exec.Cmd for the editor and a temp file path. The file
// holds an instruction block naming heading (e.g. "New post") followed by content.
func (e *EnvEditor) Cmd(content, heading string) (*exec.Cmd, string, error) {
	args := strings.Fields(os.Getenv("EDITOR"))
	if len(args) == 0 {
		args = []string{"vi"}
	}

	tmpFile, err := os.CreateTemp("", "duelterm-*.md")
	if err != nil {
		return nil, "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer tmpFile.Close()

	if _, err := tmpFile.WriteString(instructionComment(heading) + content); err != nil {
		os.Remove(tmpPath)
		return nil, "", fmt.Errorf("writing to temp file: %w", err)
	}

	cmd := exec.Command(args[0], append(args[1:], tmpPath)...)
	return cmd, tmpPath, nil
}

// ReadContent reads the temp file, strips the instruction block, trims
// whitespace and removes the file.
func (e *EnvEditor) ReadContent(path string) (string, error) {
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading temp file: %w", err)
	}

	content := string(data)
	if idx := strings.Index(content, instructionEnd); idx != -1 {
		content = content[idx+len(instructionEnd):]
	}
	return strings.TrimSpace(content), nil
}
