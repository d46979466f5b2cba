package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RenderPrompt expands the configured prompt template for a series of
// imageCount frames captured interval apart. Supported slots:
//
//	{images}   ordinal list: "image1, image2, image3"
//	{imageN}   positional reference, substituted with "image N"
//	{count}    number of frames in the series
//	{interval} whole seconds between frames
//
// Unrecognized tokens pass through verbatim so a bad template shows up
// in the model conversation rather than failing silently.
func RenderPrompt(template string, imageCount int, interval time.Duration) string {
	names := make([]string, imageCount)
	for i := range names {
		names[i] = fmt.Sprintf("image%d", i+1)
	}

	pairs := []string{
		"{images}", strings.Join(names, ", "),
		"{count}", strconv.Itoa(imageCount),
		"{interval}", strconv.Itoa(int(interval.Seconds())),
	}
	for i := 1; i <= imageCount; i++ {
		pairs = append(pairs, fmt.Sprintf("{image%d}", i), fmt.Sprintf("image %d", i))
	}

	return strings.NewReplacer(pairs...).Replace(template)
}
