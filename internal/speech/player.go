package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"aarika/internal/logger"
	"aarika/pkg/aarikatypes"
)

// Player plays a synthesized clip.
type Player interface {
	Play(ctx context.Context, clip *aarikatypes.AudioClip) error
}

// CommandPlayer writes clips under a directory and hands the file to an
// external program. With no command configured clips are only saved.
type CommandPlayer struct {
	command []string
	dir     string
	now     func() time.Time
}

// NewCommandPlayer creates a player. command is split on whitespace and the
// clip path is appended as the last argument, e.g. "aplay -q".
func NewCommandPlayer(command, dir string) *CommandPlayer {
	return &CommandPlayer{
		command: strings.Fields(command),
		dir:     dir,
		now:     time.Now,
	}
}

// Save writes the clip to disk if it has not been written yet and records
// the path on the clip.
func (p *CommandPlayer) Save(clip *aarikatypes.AudioClip) (string, error) {
	if clip == nil || len(clip.Data) == 0 {
		return "", ErrNoAudio
	}
	if clip.Path != "" {
		return clip.Path, nil
	}

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}
	path := filepath.Join(p.dir, fmt.Sprintf("aarika-%s.wav", p.now().Format("20060102-150405.000000000")))
	if err := os.WriteFile(path, clip.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}
	clip.Path = path
	return path, nil
}

// Play saves the clip and runs the player command on it.
func (p *CommandPlayer) Play(ctx context.Context, clip *aarikatypes.AudioClip) error {
	path, err := p.Save(clip)
	if err != nil {
		return err
	}
	if len(p.command) == 0 {
		logger.Debug("No audio player configured, clip saved", "path", path)
		return nil
	}

	args := append(append([]string{}, p.command[1:]...), path)
	cmd := exec.CommandContext(ctx, p.command[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("audio player %s failed: %w: %s", p.command[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}
