package models

import (
	"fmt"

	"github.com/julianstephens/lifelog/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingDayStart:
			settings.DayStart = value
		case constants.SettingDayEnd:
			settings.DayEnd = value
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingSleepCheckHour:
			if _, err := fmt.Sscanf(value, "%d", &settings.SleepCheckHour); err != nil {
				return Settings{}, fmt.Errorf("parsing sleep_check_hour: %w", err)
			}
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingDayStart:       settings.DayStart,
		constants.SettingDayEnd:         settings.DayEnd,
		constants.SettingTimezone:       settings.Timezone,
		constants.SettingSleepCheckHour: fmt.Sprintf("%d", settings.SleepCheckHour),
	}
}

// DefaultSettings returns the settings written by a fresh init.
func DefaultSettings() Settings {
	return Settings{
		DayStart:       constants.DefaultDayStart,
		DayEnd:         constants.DefaultDayEnd,
		Timezone:       constants.DefaultTimezone,
		SleepCheckHour: constants.DefaultSleepCheckHour,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.DayStart == "" {
		settings.DayStart = constants.DefaultDayStart
	}
	if settings.DayEnd == "" {
		settings.DayEnd = constants.DefaultDayEnd
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.SleepCheckHour == 0 {
		settings.SleepCheckHour = constants.DefaultSleepCheckHour
	}
}
