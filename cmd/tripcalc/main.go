package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/logging"
	"trip-planner-service/internal/services"
)

type segmentView struct {
	Sequence int     `json:"sequence"`
	Status   string  `json:"status"`
	Start    string  `json:"start"`
	End      string  `json:"end"`
	Location string  `json:"location"`
	Hours    float64 `json:"hours"`
}

type logView struct {
	Date         string        `json:"date"`
	Day          int           `json:"day"`
	Miles        float64       `json:"miles"`
	DrivingHours float64       `json:"driving_hours"`
	OnDutyHours  float64       `json:"on_duty_hours"`
	CycleHours   float64       `json:"cycle_hours"`
	Segments     []segmentView `json:"segments"`
}

type stopView struct {
	Type            string `json:"type"`
	Label           string `json:"label"`
	DurationMinutes int    `json:"duration_minutes"`
}

type output struct {
	Summary        domain.TripSummary `json:"summary"`
	Message        string             `json:"message"`
	DistanceSource string             `json:"distance_source"`
	Stops          []stopView         `json:"stops"`
	Logs           []logView          `json:"logs"`
	Warnings       []string           `json:"warnings,omitempty"`
}

// tripcalc plans a single trip offline and prints it as JSON. Without -miles
// the distance comes from the built-in route heuristics.
func main() {
	var (
		from      = flag.String("from", "", "current location")
		pickup    = flag.String("pickup", "", "pickup location")
		dropoff   = flag.String("dropoff", "", "dropoff location")
		cycleUsed = flag.Float64("cycle", 0, "hours already used in the current cycle")
		miles     = flag.Float64("miles", 0, "trip distance in miles (skips lookup when > 0)")
		start     = flag.String("start", "", "first duty day, YYYY-MM-DD (default today UTC)")
		rulesPath = flag.String("rules", os.Getenv("HOS_RULES_PATH"), "YAML file overriding the default HOS rules")
		verbose   = flag.Bool("v", false, "log to stderr")
	)
	flag.Parse()

	logOut := io.Discard
	if *verbose {
		logOut = os.Stderr
	}
	logger := logging.NewStructuredLogger(logOut, logging.ParseLevel(config.Get("LOG_LEVEL", "info")))

	rules, err := config.LoadRules(*rulesPath)
	if err != nil {
		log.Fatal(err)
	}

	req := services.PlanTripRequest{
		CurrentLocation: *from,
		PickupLocation:  *pickup,
		DropoffLocation: *dropoff,
		CycleUsedHours:  *cycleUsed,
	}
	if *miles > 0 {
		req.DistanceMiles = miles
	}
	if *start != "" {
		d, err := time.Parse(time.DateOnly, *start)
		if err != nil {
			log.Fatalf("invalid -start %q: want YYYY-MM-DD", *start)
		}
		req.StartDate = d
	}

	planner := &services.TripPlanner{
		Rules: rules,
		Repo:  repositories.NewMemoryTripRepository(),
	}

	ctx := logging.WithLogger(context.Background(), logger)
	trip, err := planner.PlanTrip(ctx, req)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(render(trip)); err != nil {
		log.Fatal(err)
	}
}

// exitCode is 2 for rejected input and 1 for everything else.
func exitCode(err error) int {
	if domain.IsValidationError(err) {
		return 2
	}
	return 1
}

func render(trip *domain.TripRecord) output {
	out := output{
		Summary:        trip.Summary,
		Message:        trip.Summary.Message(),
		DistanceSource: string(trip.DistanceSource),
	}

	for _, s := range trip.Stops {
		out.Stops = append(out.Stops, stopView{
			Type:            string(s.Type),
			Label:           s.Label,
			DurationMinutes: s.DurationMinutes,
		})
	}

	for _, l := range trip.Logs {
		v := logView{
			Date:         l.Date.Format(time.DateOnly),
			Day:          l.DayIndex,
			Miles:        l.TotalMiles,
			DrivingHours: domain.Round2(l.DrivingHours()),
			OnDutyHours:  domain.Round2(l.OnDutyHours()),
			CycleHours:   l.CycleHours,
		}
		for _, s := range l.Segments {
			v.Segments = append(v.Segments, segmentView{
				Sequence: s.Sequence,
				Status:   string(s.Status),
				Start:    s.Start.Format("15:04"),
				End:      clock(l.Date, s.End),
				Location: s.Location,
				Hours:    domain.Round2(s.Hours()),
			})
		}
		out.Logs = append(out.Logs, v)

		if l.Warning != nil {
			out.Warnings = append(out.Warnings, l.Warning.String())
		}
	}

	return out
}

// clock formats t as HH:MM within the day starting at day; midnight of the
// next day prints as 24:00.
func clock(day, t time.Time) string {
	if t.Equal(day.AddDate(0, 0, 1)) {
		return "24:00"
	}
	return t.Format("15:04")
}
