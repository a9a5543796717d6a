// Copyright 2026 Telic Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package render

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/telic/vidsem/core"
)

var pageTemplate = template.Must(template.New("results").Parse(pageHTML))

// WriteHTML renders a complete static result page for one query.
// Text fields are escaped by html/template; no input sanitizing happens
// upstream of this call.
func WriteHTML(w io.Writer, query string, results *core.GroupedResults, minSimilarity float64) error {
	return WritePage(w, BuildPage(query, results, minSimilarity, time.Now()))
}

// WritePage renders an already built page.
func WritePage(w io.Writer, page Page) error {
	if err := pageTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("rendering result page: %w", err)
	}
	return nil
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta name="referrer" content="strict-origin-when-cross-origin">
    <title>Video Search Results: "{{.Query}}"</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
            padding: 2rem 1rem;
        }
        .container { max-width: 1200px; margin: 0 auto; }
        .header { text-align: center; color: #fff; margin-bottom: 2rem; }
        .header h1 { font-size: 2rem; margin-bottom: 0.5rem; }
        .query { font-style: italic; opacity: 0.9; }
        .results-count { margin-top: 0.5rem; opacity: 0.8; font-size: 0.9rem; }
        .grid {
            display: grid;
            grid-template-columns: repeat(auto-fill, minmax(340px, 1fr));
            gap: 1.5rem;
        }
        .card {
            background: #fff;
            border-radius: 12px;
            overflow: hidden;
            box-shadow: 0 4px 20px rgba(0, 0, 0, 0.15);
        }
        .video-container { position: relative; width: 100%; padding-bottom: 56.25%; }
        .video-container iframe { position: absolute; top: 0; left: 0; width: 100%; height: 100%; }
        .card-content { padding: 1rem; }
        .card-title { font-weight: 600; margin-bottom: 0.5rem; }
        .card-title a { color: #1a1a2e; text-decoration: none; }
        .segment-text { color: #444; font-size: 0.9rem; margin-bottom: 0.75rem; }
        .segment-info { display: flex; gap: 0.5rem; margin-bottom: 0.5rem; flex-wrap: wrap; }
        .time-badge, .similarity-badge {
            font-size: 0.8rem;
            padding: 0.2rem 0.6rem;
            border-radius: 999px;
            background: #eef;
            color: #334;
        }
        .similarity-badge { background: #e6f7ee; color: #1c6b42; }
        .stats { display: flex; gap: 1rem; font-size: 0.85rem; color: #666; margin-bottom: 0.75rem; }
        .youtube-link {
            display: inline-block;
            color: #c00;
            text-decoration: none;
            font-size: 0.9rem;
            font-weight: 500;
        }
        .expand-button {
            display: block;
            width: 100%;
            margin-top: 0.75rem;
            padding: 0.5rem;
            border: 1px solid #ddd;
            border-radius: 8px;
            background: #fafafa;
            cursor: pointer;
            font-size: 0.85rem;
        }
        .segments-list { display: none; margin-top: 0.75rem; }
        .segments-list.expanded { display: block; }
        .segment-item { border-top: 1px solid #eee; padding: 0.75rem 0; }
        .segment-header { display: flex; gap: 0.5rem; margin-bottom: 0.4rem; }
        .segment-text-small { font-size: 0.85rem; color: #555; margin-bottom: 0.4rem; }
        .segment-link { color: #c00; text-decoration: none; font-size: 0.85rem; }
        .footer { text-align: center; color: #fff; opacity: 0.7; margin-top: 2rem; font-size: 0.85rem; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>&#127916; Video Search Results</h1>
            <div class="query">Query: "{{.Query}}"</div>
            <div class="results-count">Found {{.UniqueVideos}} unique videos ({{.TotalSegments}} segments total, similarity &ge; {{.ThresholdLabel}})</div>
        </div>
        <div class="grid">
{{- range .Cards}}
            <div class="card">
                <div class="video-container">
                    <iframe
                        id="ytplayer-{{.Index}}"
                        type="text/html"
                        src="{{.EmbedURL}}"
                        frameborder="0"
                        referrerpolicy="strict-origin-when-cross-origin"
                        allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture"
                        allowfullscreen>
                    </iframe>
                </div>
                <div class="card-content">
                    <div class="card-title">
                        <a href="{{.WatchURL}}" target="_blank">{{.Title}}</a>
                    </div>
                    <div class="segment-text">{{.BestText}}</div>
                    <div class="segment-info">
                        <span class="time-badge">&#9201; {{.TimeRange}}</span>
                        <span class="similarity-badge">&#127919; {{.Similarity}} match</span>
                    </div>
                    <div class="stats">
                        <span class="stat-item">&#128065; {{.Views}} views</span>
                        <span class="stat-item">&#128077; {{.Likes}} likes</span>
                    </div>
                    <a href="{{.WatchURL}}" target="_blank" class="youtube-link">&#9654; Watch on YouTube</a>
{{- if gt .ExtraCount 0}}
                    <button class="expand-button" onclick="toggleSegments('segments-{{.Index}}')">
                        <span class="icon">&#9660;</span>
                        <span>{{.ExtraLabel}}</span>
                    </button>
                    <div id="segments-{{.Index}}" class="segments-list">
{{- range .ExtraSegments}}
                        <div class="segment-item">
                            <div class="segment-header">
                                <span class="time-badge">&#9201; {{.TimeRange}}</span>
                                <span class="similarity-badge">&#127919; {{.Similarity}} match</span>
                            </div>
                            <div class="segment-text-small">{{.Text}}</div>
                            <a href="{{.WatchURL}}" target="_blank" class="segment-link">&#9654; Watch this segment</a>
                        </div>
{{- end}}
                    </div>
{{- end}}
                </div>
            </div>
{{- end}}
        </div>
        <div class="footer">Generated on {{.GeneratedAt}}</div>
    </div>
    <script>
        function toggleSegments(segmentId) {
            const segmentsList = document.getElementById(segmentId);
            const button = segmentsList.previousElementSibling;
            if (segmentsList.classList.contains('expanded')) {
                segmentsList.classList.remove('expanded');
                const count = segmentsList.children.length;
                button.querySelector('span:last-child').textContent =
                    'Show ' + count + ' more segment' + (count === 1 ? '' : 's');
            } else {
                segmentsList.classList.add('expanded');
                button.querySelector('span:last-child').textContent = 'Hide segments';
            }
        }
    </script>
</body>
</html>
`
