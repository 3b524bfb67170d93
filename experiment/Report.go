package experiment

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"github.com/samuelfneumann/pursuit/experiment/trackers"
)

// Window is the number of episodes the learning curves of a report are
// averaged over
const Window = 50

// Report renders an HTML page with one learning curve per Tracker to
// w. Every curve shows the tracked data of each episode along with its
// moving average over the last Window episodes.
func Report(w io.Writer, title string, id uuid.UUID,
	t ...trackers.Tracker) error {
	page := components.NewPage()
	page.PageTitle = title

	for _, tracker := range t {
		data := tracker.Data()

		episodes := make([]string, len(data))
		raw := make([]opts.LineData, len(data))
		smooth := make([]opts.LineData, len(data))
		for i, v := range data {
			episodes[i] = fmt.Sprintf("%d", i+1)
			raw[i] = opts.LineData{Value: v}
			smooth[i] = opts.LineData{Value: MovingAverage(data, i, Window)}
		}

		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{
				Title:    fmt.Sprintf("%s: %s", title, tracker.Name()),
				Subtitle: fmt.Sprintf("run %v", id),
			}),
			charts.WithInitializationOpts(opts.Initialization{
				Theme: "shine",
			}),
		)
		line.SetXAxis(episodes).
			AddSeries(tracker.Name(), raw).
			AddSeries(fmt.Sprintf("%s (%d episode average)", tracker.Name(),
				Window), smooth)
		page.AddCharts(line)
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("report: %v", err)
	}
	return nil
}

// MovingAverage returns the average of data over the window episodes
// ending at episode i, or over every episode up to i if there are
// fewer
func MovingAverage(data []float64, i, window int) float64 {
	start := i - window + 1
	if start < 0 {
		start = 0
	}
	return floats.Sum(data[start:i+1]) / float64(i+1-start)
}
