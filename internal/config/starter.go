package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const starterTemplate = `# lifecal configuration
calendar:
  birthday: %q
  lifespan_years: %d

# render:
#   width: 2560
#   height: 1664
#   output: ~/Desktop/life_calendar.png

# schedule:
#   backend: auto        # launchd | systemd | cron | auto
#   weekday: monday
#   hour: 9
#   minute: 0

# wallpaper:
#   set: true
`

// WriteStarter creates a minimal commented config file at path.
// It refuses to overwrite an existing file.
func WriteStarter(path, birthday string) error {
	if _, err := ParseBirthday(birthday); err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	body := fmt.Sprintf(starterTemplate, birthday, DefaultLifespanYears)
	return os.WriteFile(path, []byte(body), 0o644)
}
