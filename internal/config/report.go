package config

type ReportCfg struct {
	// RenderWidthPx is the virtual page width reports are laid out at (A4 at 96 DPI)
	RenderWidthPx int
	// SlackUnits is the overflow, in page units, below which no extra page is emitted
	SlackUnits float64
	// RenderScale is the pixel density of report rasters relative to the layout width
	RenderScale float64
	JpegQuality int
	Brand       string
}

func NewReportCfg() *ReportCfg {
	return &ReportCfg{
		RenderWidthPx: getEnvAsInt("REPORT_RENDER_WIDTH_PX", 794),
		SlackUnits:    getEnvAsFloat("REPORT_PAGE_SLACK", 20),
		RenderScale:   getEnvAsFloat("REPORT_RENDER_SCALE", 2),
		JpegQuality:   getEnvAsInt("REPORT_JPEG_QUALITY", 95),
		Brand:         getEnv("REPORT_BRAND", "AI Grader Pro"),
	}
}
