// Package operations holds the catalog of operation names the Resolve
// bridge understands. The execution engine never consults this catalog -
// operation names stay opaque to it - but the CLI and the MCP surface use
// it for discovery and early feedback.
package operations

// Category groups related operations for presentation.
type Category struct {
	Name string   `json:"name"`
	Ops  []string `json:"operations"`
}

var categories = []Category{
	{Name: "Core", Ops: []string{
		"check_connection",
		"get_context",
	}},
	{Name: "Media", Ops: []string{
		"import_media",
		"append_to_timeline",
		"create_timeline",
	}},
	{Name: "Clip Properties", Ops: []string{
		"set_clip_property",
		"set_clip_enabled",
		"set_clip_color",
	}},
	{Name: "Markers", Ops: []string{
		"add_marker",
		"add_clip_marker",
		"delete_marker",
		"clear_markers",
	}},
	{Name: "Tracks", Ops: []string{
		"add_track",
		"set_track_name",
		"enable_track",
		"lock_track",
		"delete_track",
	}},
	{Name: "Render", Ops: []string{
		"add_render_job",
		"start_render",
		"set_render_settings",
		"get_render_formats",
		"get_render_codecs",
		"set_render_format_and_codec",
		"get_render_presets",
		"load_render_preset",
		"save_render_preset",
		"delete_render_preset",
		"get_render_jobs",
		"delete_render_job",
		"delete_all_render_jobs",
		"get_render_job_status",
	}},
	{Name: "Timeline", Ops: []string{
		"set_timeline",
		"duplicate_timeline",
		"export_timeline",
		"import_timeline_from_file",
	}},
	{Name: "Fusion & Compositions", Ops: []string{
		"insert_fusion_composition",
		"create_fusion_clip",
		"add_fusion_comp_to_clip",
		"create_compound_clip",
	}},
	{Name: "Generators & Titles", Ops: []string{
		"insert_generator",
		"insert_title",
	}},
	{Name: "Text+", Ops: []string{
		"set_text_content",
		"set_text_style",
		"get_text_properties",
		"add_text_to_timeline",
	}},
	{Name: "AI & Processing", Ops: []string{
		"stabilize_clip",
		"smart_reframe",
		"create_magic_mask",
		"detect_scene_cuts",
	}},
	{Name: "Clip Management", Ops: []string{
		"delete_clips",
		"set_clips_linked",
	}},
	{Name: "Navigation", Ops: []string{
		"set_current_timecode",
		"get_current_timecode",
		"open_page",
		"get_current_page",
	}},
	{Name: "Audio", Ops: []string{
		"create_subtitles_from_audio",
		"detect_beats",
		"check_audio_deps",
	}},
	{Name: "Stills & Gallery", Ops: []string{
		"grab_still",
		"export_still",
		"apply_grade_from_drx",
		"get_gallery_albums",
	}},
	{Name: "Color Grading", Ops: []string{
		"apply_lut",
		"get_lut",
		"set_cdl",
		"copy_grades",
		"reset_grades",
		"add_color_version",
		"load_color_version",
		"get_color_versions",
		"delete_color_version",
	}},
	{Name: "Color Groups", Ops: []string{
		"create_color_group",
		"get_color_groups",
		"assign_to_color_group",
		"remove_from_color_group",
		"delete_color_group",
	}},
	{Name: "Media Pool", Ops: []string{
		"create_media_pool_folder",
		"set_current_media_pool_folder",
		"move_media_pool_clips",
		"delete_media_pool_clips",
		"delete_media_pool_folders",
		"set_clip_metadata",
		"get_clip_metadata",
		"relink_clips",
	}},
	{Name: "Flags", Ops: []string{
		"add_flag",
		"get_flags",
		"clear_flags",
	}},
	{Name: "Takes", Ops: []string{
		"add_take",
		"select_take",
		"get_takes",
		"finalize_take",
		"delete_take",
	}},
	{Name: "Project Settings", Ops: []string{
		"save_project",
		"export_project",
		"get_project_setting",
		"set_project_setting",
		"get_timeline_setting",
		"set_timeline_setting",
	}},
	{Name: "Keyframe Mode", Ops: []string{
		"set_keyframe_mode",
		"get_keyframe_mode",
	}},
	{Name: "Cache", Ops: []string{
		"set_clip_cache_mode",
		"get_clip_cache_mode",
		"refresh_lut_list",
	}},
}

var index = buildIndex()

func buildIndex() map[string]struct{} {
	known := make(map[string]struct{})
	for _, category := range categories {
		for _, op := range category.Ops {
			known[op] = struct{}{}
		}
	}
	return known
}

// All returns every operation name, in catalog order.
func All() []string {
	var names []string
	for _, category := range categories {
		names = append(names, category.Ops...)
	}
	return names
}

// Categories returns the catalog grouped for presentation.
func Categories() []Category {
	return categories
}

// Known reports whether the bridge understands the operation name.
func Known(name string) bool {
	_, ok := index[name]
	return ok
}
