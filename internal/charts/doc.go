// Package charts renders dashboard figures as PNG images.
//
// Bar and histogram figures become go-chart bar charts and pie figures
// become pie charts. A figure with nothing to draw is rendered as a single
// empty bar labelled "No data" so clients always receive an image.
package charts
