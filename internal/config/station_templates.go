package config

func StationTemplate(name, stationName string) *StationConfig {
	switch name {
	case "madbeach":
		return &StationConfig{
			Name:       stationName,
			ShortName:  "madbeach",
			Title:      "Madeira Beach",
			Enabled:    true,
			RawSegment: true,
			Dialect:    "long",
			Walk:       "products",
			Policy:     "archive",
			Timezone:   "America/New_York",
		}
	case "nuvuk":
		return &StationConfig{
			Name:       stationName,
			ShortName:  "nuvuk",
			Title:      "Nuvuk",
			Enabled:    true,
			RawSegment: true,
			Dialect:    "long",
			Walk:       "all",
			Policy:     "rename",
			Timezone:   "America/Anchorage",
		}
	case "dorado":
		return &StationConfig{
			Name:        stationName,
			ShortName:   "dorado",
			Title:       "Dorado",
			Enabled:     true,
			RawSegment:  true,
			CameraRemap: true,
			Dialect:     "long",
			Walk:        "products",
			Policy:      "rename",
			Timezone:    "America/Puerto_Rico",
		}
	case "islaverde":
		return &StationConfig{
			Name:       stationName,
			Title:      "Isla Verde",
			Enabled:    true,
			RawSegment: true,
			Walk:       "products",
			Policy:     "archive",
			Timezone:   "America/Puerto_Rico",
			Alert: &AlertConfig{
				Enabled:       true,
				Prefix:        "cameras/" + stationName + "/products/",
				WindowMinutes: 60,
				Schedule:      &ScheduleConfig{Period: PeriodHour, At: "00:05"},
			},
		}
	case "caco-01":
		return &StationConfig{
			Name:     stationName,
			Title:    "CACO-01",
			Enabled:  true,
			Walk:     "products",
			Policy:   "archive",
			Timezone: "America/New_York",
			Tally: &TallyConfig{
				Enabled:  true,
				Cameras:  []string{"c1", "c2"},
				Schedule: &ScheduleConfig{Period: PeriodDay, Times: 1, At: "20:00"},
			},
		}
	case "sandkey":
		return &StationConfig{
			Name:         stationName,
			Title:        "Sand Key",
			Enabled:      true,
			RawSegment:   true,
			Walk:         "products",
			Policy:       "rename",
			RelocateLogs: true,
			Timezone:     "America/New_York",
		}
	case "dreaminn":
		return &StationConfig{
			Name:     stationName,
			Title:    "Dream Inn",
			Enabled:  true,
			Walk:     "products",
			Policy:   "archive",
			Timezone: "America/Los_Angeles",
			Alert: &AlertConfig{
				Enabled:  true,
				Schedule: &ScheduleConfig{Period: PeriodDay, Times: 1, At: "18:00"},
			},
		}
	default:
		return nil
	}
}

func StationTemplateNames() []string {
	return []string{"madbeach", "nuvuk", "dorado", "islaverde", "caco-01", "sandkey", "dreaminn"}
}
