package report

// Figure is a Plotly-compatible figure: a list of traces and a layout.
type Figure struct {
	Data   []map[string]any `json:"data"`
	Layout map[string]any   `json:"layout"`
}

// Figure renders the bar chart as grouped Plotly bar traces.
func (c BarChart) Figure() Figure {
	data := make([]map[string]any, len(c.Series))
	for i, s := range c.Series {
		data[i] = map[string]any{
			"type": "bar",
			"name": s.Name,
			"x":    c.Categories,
			"y":    s.Values,
		}
	}
	return Figure{
		Data: data,
		Layout: map[string]any{
			"title":   map[string]any{"text": c.Title},
			"barmode": "group",
			"xaxis":   map[string]any{"tickangle": -45},
			"yaxis":   map[string]any{"title": map[string]any{"text": c.YAxis}},
		},
	}
}

// Figure renders the map as a single scattermapbox trace. Hovering a marker
// shows the site and its storage gallons. The layout uses a token-free base
// style.
func (m MapChart) Figure() Figure {
	lat := make([]float64, len(m.Points))
	lon := make([]float64, len(m.Points))
	text := make([]string, len(m.Points))
	size := make([]float64, len(m.Points))
	for i, p := range m.Points {
		lat[i], lon[i], size[i] = p.Lat, p.Lon, p.MarkerSize
		text[i] = p.Label
	}
	return Figure{
		Data: []map[string]any{{
			"type":       "scattermapbox",
			"mode":       "markers",
			"lat":        lat,
			"lon":        lon,
			"text":       text,
			"customdata":    magnitudes(m.Points),
			"hovertemplate": "%{text}<br>%{customdata:,.0f} gal<extra></extra>",
			"marker":        map[string]any{"size": size},
		}},
		Layout: map[string]any{
			"title":     map[string]any{"text": m.Title},
			"hovermode": "closest",
			"height":    900,
			"mapbox": map[string]any{
				"style":  "open-street-map",
				"center": map[string]any{"lat": m.Center.Lat, "lon": m.Center.Lon},
				"zoom":   m.Zoom,
				"pitch":  5,
			},
		},
	}
}

func magnitudes(points []MapPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Magnitude
	}
	return out
}
