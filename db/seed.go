package db

import (
	"context"
	"encoding/json"

	"github.com/uptrace/bun"

	"github.com/artlurun/api/models"
)

// Seed populates the race catalog if it is empty. Safe to run repeatedly.
func Seed(ctx context.Context, db *bun.DB) error {
	count, err := db.NewSelect().Model((*models.Race)(nil)).Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	races := seedRaces()
	if _, err := db.NewInsert().Model(&races).Exec(ctx); err != nil {
		return err
	}

	var leadville models.Race
	if err := db.NewSelect().Model(&leadville).Where("slug = ?", "leadville-100").Scan(ctx); err != nil {
		return err
	}
	sections := leadvilleSections(leadville.ID)
	if _, err := db.NewInsert().Model(&sections).Exec(ctx); err != nil {
		return err
	}

	return nil
}

func seedRaces() []models.Race {
	leadvilleContent, _ := json.Marshal(map[string]interface{}{
		"callout": map[string]string{
			"title": "Altitude is Everything",
			"text":  "Starting at 10,152 ft with sustained climbing above 10,000 ft, Hope Pass at 12,620 ft twice tests acclimatization, pacing, and resilience.",
		},
		"weather": []map[string]string{
			{"label": "START (6 AM)", "value": "40-50°F"},
			{"label": "MIDDAY", "value": "60-75°F"},
			{"label": "NIGHT", "value": "30-40°F"},
		},
		"race_essentials": []string{
			"Trekking poles (critical for Hope Pass twice)",
			"Headlamp with extra batteries",
			"Warm layers for high-altitude sections",
		},
		"finisher_tips": []string{
			"Altitude acclimatization is crucial: arrive 1-2 weeks early if possible",
			"Hope Pass will humble you twice; maintain forward progress",
		},
	})

	return []models.Race{
		{
			Slug: "leadville-100", Name: "Leadville Trail 100", Distance: "100 miles",
			DistanceMiles: f(100), ElevationGain: s("15,600 ft"), ElevationGainFt: i(15600),
			Location: s("Leadville, Colorado"), State: s("CO"), Country: "USA",
			Description: s("America's highest altitude 100-mile trail race. The out-and-back course crosses Hope Pass at 12,620 ft — twice."),
			Month:       s("August"), CutoffTime: s("30 hours"), Difficulty: "Expert",
			GPXAvailable:     true,
			ElevationProfile: json.RawMessage(`[10152,10500,10800,10200,9600,9200,9600,10400,11200,12000,12620,11600,10400,9800,10000,10800,11600,12400,12620,11600,10400,10000,9600,9800,10152]`),
			Content:          leadvilleContent,
			TrainingLocation: s("Denver/Boulder metro area"),
		},
		{
			Slug: "western-states-100", Name: "Western States 100", Distance: "100 miles",
			DistanceMiles: f(100), ElevationGain: s("18,090 ft"), ElevationGainFt: i(18090),
			Location: s("Olympic Valley to Auburn, California"), State: s("CA"), Country: "USA",
			Description: s("The world's oldest 100-mile trail race, point-to-point through the Sierra Nevada with extreme canyon heat and relentless descents."),
			Month:       s("June"), CutoffTime: s("30 hours"), Difficulty: "Expert",
			GPXAvailable:     true,
			ElevationProfile: json.RawMessage(`[6200,8750,7200,6200,4800,3600,2800,3800,3000,2200,2600,1800,1400,1800,2600,1800,1200,1400,1000,600,400,350,340]`),
			TrainingLocation: s("San Francisco Bay Area"),
		},
		{
			Slug: "utmb", Name: "Ultra-Trail du Mont-Blanc", Distance: "106 miles",
			DistanceMiles: f(106), ElevationGain: s("32,800 ft"), ElevationGainFt: i(32800),
			Location: s("Chamonix, France"), Country: "France",
			Description: s("A full circumnavigation of Mont Blanc through France, Italy, and Switzerland with 32,800 ft of climbing."),
			Month:       s("August"), CutoffTime: s("46 hours 30 min"), Difficulty: "Expert",
			ElevationProfile: json.RawMessage(`[1035,1600,2537,1600,800,1400,2200,2537,1800,1000,1400,2200,2665,1800,1200,2000,2537,1600,800,1400,2200,2000,1200,1035]`),
		},
		{
			Slug: "hardrock-100", Name: "Hardrock 100", Distance: "100 miles",
			DistanceMiles: f(100), ElevationGain: s("33,050 ft"), ElevationGainFt: i(33050),
			Location: s("Silverton, Colorado"), State: s("CO"), Country: "USA",
			Description: s("A brutal high-altitude loop through Colorado's San Juan Mountains, topping out at 14,048 ft on Handies Peak."),
			Month:       s("July"), CutoffTime: s("48 hours"), Difficulty: "Extreme",
			ElevationProfile: json.RawMessage(`[9318,10800,12400,11600,10000,10200,11800,13400,14048,12600,11000,9800,11200,12800,12400,10800,9600,11000,12600,12000,10400,9600,10400,9600,9318]`),
		},
		{
			Slug: "badwater-135", Name: "Badwater 135", Distance: "135 miles",
			DistanceMiles: f(135), ElevationGain: s("14,600 ft"), ElevationGainFt: i(14600),
			Location: s("Death Valley to Mt. Whitney, California"), State: s("CA"), Country: "USA",
			Description: s("Starting 282 ft below sea level in Death Valley and climbing to 8,360 ft at the Mt. Whitney Portal through scorching desert heat."),
			Month:       s("July"), CutoffTime: s("48 hours"), Difficulty: "Extreme",
			ElevationProfile: json.RawMessage(`[-282,0,400,800,400,0,800,1600,2400,3200,2400,2400,3200,4000,3600,4400,5200,6000,6800,7600,8360]`),
		},
		{
			Slug: "javelina-jundred", Name: "Javelina Jundred", Distance: "100 miles",
			DistanceMiles: f(100), ElevationGain: s("5,500 ft"), ElevationGainFt: i(5500),
			Location: s("Fountain Hills, Arizona"), State: s("AZ"), Country: "USA",
			Description: s("A fast, festive desert 100 on looped trails near Scottsdale, one of the fastest 100-mile courses in the US."),
			Month:       s("October"), CutoffTime: s("30 hours"), Difficulty: "Moderate",
			ElevationProfile: json.RawMessage(`[1800,2000,2200,2000,1800,2000,2200,2000,1800,2000,2200,2000,1800,2000,2200,2000,1800,1800]`),
		},
	}
}

func leadvilleSections(raceID int) []models.RaceSection {
	return []models.RaceSection{
		{RaceID: raceID, SectionNumber: 1, Name: "Start to May Queen", MilesStart: f(0), MilesEnd: f(13.5),
			ElevationGain: s("+800 ft"),
			Description:   s("Flat, runnable start on dirt roads and singletrack around Turquoise Lake. Deceptively easy terrain that tempts fast starts."),
			StrategyTip:   s("Go out conservatively. Many runners blow up later from starting too fast here.")},
		{RaceID: raceID, SectionNumber: 2, Name: "May Queen to Outward Bound", MilesStart: f(13.5), MilesEnd: f(24),
			ElevationGain: s("+2,400 ft"),
			Description:   s("Steady climb through forests on Hagerman Pass Road. The grade is manageable but relentless."),
			StrategyTip:   s("Settle into a power hiking rhythm on the climbs. Eat and drink consistently.")},
		{RaceID: raceID, SectionNumber: 3, Name: "Outward Bound to Hope Pass", MilesStart: f(24), MilesEnd: f(44),
			ElevationGain: s("+3,000 ft to 12,600 ft"),
			Description:   s("The race-defining climb to Hope Pass at 12,620 ft, then a brutal descent to Winfield. Most DNFs happen here."),
			StrategyTip:   s("Start the climb conservatively. Watch for altitude sickness symptoms."),
			IsCrux:        true},
		{RaceID: raceID, SectionNumber: 4, Name: "Winfield Turnaround to Twin Lakes", MilesStart: f(44), MilesEnd: f(60.5),
			ElevationGain: s("+3,000 ft (return over Hope Pass)"),
			Description:   s("Back over Hope Pass in the heat of the day. Tired legs meet the hardest climb of the race for the second time."),
			StrategyTip:   s("Break it into small goals: next tree, next switchback."),
			IsCrux:        true},
		{RaceID: raceID, SectionNumber: 5, Name: "Twin Lakes to Halfmoon", MilesStart: f(60.5), MilesEnd: f(76.5),
			ElevationGain: s("-2,400 ft"),
			Description:   s("Recovery section on the return trip. Downhill but legs are damaged from the Hope Pass descent."),
			StrategyTip:   s("Keep moving, even slowly. Get your night gear ready at the aid station.")},
		{RaceID: raceID, SectionNumber: 6, Name: "Halfmoon to Finish", MilesStart: f(76.5), MilesEnd: f(100),
			ElevationGain: s("Rolling"),
			Description:   s("Final push through the night on familiar terrain. Mental game is everything as fatigue peaks."),
			StrategyTip:   s("Run the flats, walk the hills, never sit down.")},
	}
}

func s(v string) *string   { return &v }
func i(v int) *int         { return &v }
func f(v float64) *float64 { return &v }
