package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/telic/vidsem"
	"github.com/telic/vidsem/ai/mock"
	"github.com/telic/vidsem/core"
	"github.com/telic/vidsem/ingestion"
)

var dbPath = flag.String("db", "./transcripts_db", "path to the database directory")

// demoVideo describes one seeded video and its transcript lines. Segments
// are synthesized as consecutive five-second spans.
type demoVideo struct {
	id       string
	title    string
	desc     string
	views    int64
	likes    int64
	language string
	lines    []string
}

var demoVideos = []demoVideo{
	{
		id: "dQw4w9WgXcQ", title: "Press Conference on Trade Policy",
		desc: "Full press conference covering tariffs and trade agreements.",
		views: 1_284_003, likes: 45_210, language: "en",
		lines: []string{
			"Good afternoon everyone, thank you for being here today.",
			"We are announcing a new framework for trade with our partners.",
			"Tariffs on imported steel will be reviewed next quarter.",
			"Our farmers deserve fair access to international markets.",
			"I will now take questions from the press.",
		},
	},
	{
		id: "kJQP7kiw5Fk", title: "Evening News: Energy Markets",
		desc: "Coverage of the week's movements in oil and gas prices.",
		views: 530_998, likes: 12_405, language: "en",
		lines: []string{
			"Oil prices climbed for the third consecutive day.",
			"Analysts point to supply concerns in major producing regions.",
			"Natural gas futures remained mostly flat through the session.",
			"Renewable energy stocks outperformed the broader market.",
		},
	},
	{
		id: "9bZkp7q19f0", title: "Marathon Highlights",
		desc: "The closing kilometers of this year's city marathon.",
		views: 2_874_441, likes: 98_730, language: "en",
		lines: []string{
			"The leading pack entered the final stretch together.",
			"A late surge decided the race in the last kilometer.",
			"The winning time set a new course record.",
		},
	},
}

func buildTranscript(video demoVideo) *ingestion.Transcript {
	transcript := &ingestion.Transcript{
		Metadata: core.VideoMetadata{
			VideoID:         video.id,
			Title:           video.title,
			Description:     video.desc,
			PublishedAt:     time.Now().UTC().Add(-30 * 24 * time.Hour),
			DurationSeconds: float64(len(video.lines)) * 5,
			ViewCount:       video.views,
			LikeCount:       video.likes,
			Language:        video.language,
		},
	}

	for i, line := range video.lines {
		transcript.Segments = append(transcript.Segments, &core.Segment{
			VideoID: video.id,
			Start:   float64(i) * 5,
			End:     float64(i)*5 + 5,
			Text:    line,
		})
	}
	return transcript
}

func main() {
	flag.Parse()

	// The mock provider embeds deterministically, so seeding needs no
	// running embedding service.
	db, err := vidsem.NewDatabase(*dbPath, vidsem.WithProvider(mock.NewMockProvider()))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	ctx := context.Background()
	total := 0
	for _, video := range demoVideos {
		transcript := buildTranscript(video)
		if err := pipeline.IngestTranscript(ctx, transcript); err != nil {
			panic(err)
		}
		total += len(transcript.Segments)
	}

	fmt.Fprintf(os.Stderr, "Seeded %d videos (%d segments) into %s\n",
		len(demoVideos), total, *dbPath)
}
