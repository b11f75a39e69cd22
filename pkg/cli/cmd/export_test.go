package cmd

// Test exports.
var (
	RenderReport      = renderReport
	RenderClusters    = renderClusters
	RenderClusterInfo = renderClusterInfo
	ProgressWriter    = progressWriter
)
