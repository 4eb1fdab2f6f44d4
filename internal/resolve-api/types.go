package resolveApi

// ConnectionInfo is the bridge's answer to check_connection.
type ConnectionInfo struct {
	Product string `json:"product"`
	Version string `json:"version"`
}

// Context is the full Resolve state snapshot the bridge assembles for
// plan generation and status display.
type Context struct {
	Product   string         `json:"product"`
	Version   string         `json:"version"`
	Project   *ProjectInfo   `json:"project"`
	Timeline  *TimelineInfo  `json:"timeline"`
	MediaPool *MediaPoolInfo `json:"media_pool"`
}

type ProjectInfo struct {
	Name          string `json:"name"`
	TimelineCount int    `json:"timeline_count"`
}

type TimelineInfo struct {
	Name       string       `json:"name"`
	FrameRate  float64      `json:"frame_rate"`
	Resolution [2]int       `json:"resolution"`
	StartFrame int64        `json:"start_frame"`
	EndFrame   int64        `json:"end_frame"`
	Tracks     TrackSet     `json:"tracks"`
	Markers    []MarkerInfo `json:"markers"`
}

type TrackSet struct {
	Video []Track `json:"video"`
	Audio []Track `json:"audio"`
}

type Track struct {
	Index int        `json:"index"`
	Name  string     `json:"name"`
	Clips []ClipInfo `json:"clips"`
}

type ClipInfo struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Start    int64  `json:"start"`
	End      int64  `json:"end"`
	Duration int64  `json:"duration"`
}

type MarkerInfo struct {
	Frame    int64  `json:"frame"`
	Color    string `json:"color"`
	Name     string `json:"name"`
	Note     string `json:"note"`
	Duration int    `json:"duration"`
}

type MediaPoolInfo struct {
	Clips   []string `json:"clips"`
	Folders []string `json:"folders"`
}
