package main

import (
	"io"

	"github.com/vbauerster/mpb/v6"
	"github.com/vbauerster/mpb/v6/decor"

	"github.com/bobg/smartbackup/progress"
)

// bars shows a progress bar per stage.
type bars struct {
	p    *mpb.Progress
	bars map[progress.Stage]*mpb.Bar
}

var _ progress.Observer = &bars{}

func newBars(w io.Writer, stages ...progress.Stage) *bars {
	b := &bars{
		p:    mpb.New(mpb.WithOutput(w), mpb.WithWidth(50)),
		bars: make(map[progress.Stage]*mpb.Bar),
	}
	for _, stage := range stages {
		b.bars[stage] = b.p.AddBar(0,
			mpb.PrependDecorators(
				decor.Name(stage.String(), decor.WC{W: 9, C: decor.DidentRight}),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(decor.Percentage(decor.WC{W: 5})),
		)
	}
	return b
}

func (b *bars) Progress(stage progress.Stage, current, total int) {
	bar, ok := b.bars[stage]
	if !ok {
		return
	}
	bar.SetTotal(int64(total), false)
	bar.SetCurrent(int64(current))
}

// wait completes every bar, including those of stages that never ran,
// and waits for the final render.
func (b *bars) wait() {
	for _, bar := range b.bars {
		bar.SetTotal(-1, true)
	}
	b.p.Wait()
}
