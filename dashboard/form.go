package dashboard

import (
	"html/template"
	"net/http"
)

var formTemplate = template.Must(template.New("form").Parse(formHTML))

type formState struct {
	MinSimilarity float64
	MaxResults    int
	Categories    []Category
}

func (s *Server) writeForm(w http.ResponseWriter, state formState) {
	state.Categories = s.categories.Categories
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := formTemplate.Execute(w, state); err != nil {
		s.logger.Error("rendering search form failed", "err", err)
	}
}

const formHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Semantic Video Search</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
            background: #f5f6fa;
            padding: 3rem 1rem;
        }
        .container { max-width: 640px; margin: 0 auto; }
        h1 { text-align: center; font-size: 2.2rem; margin-bottom: 0.3rem; }
        .subtitle { text-align: center; color: #555; margin-bottom: 2rem; }
        form {
            background: #fff;
            border: 1px solid #e5e5e5;
            border-radius: 1rem;
            padding: 1.5rem;
            box-shadow: 0 4px 12px rgba(0, 0, 0, 0.03);
        }
        label { display: block; font-size: 0.9rem; font-weight: 600; margin: 0.9rem 0 0.3rem; }
        input[type="text"], select {
            width: 100%;
            padding: 0.5rem;
            border: 1px solid #ccc;
            border-radius: 0.5rem;
            font-size: 1rem;
        }
        .row { display: flex; gap: 1rem; }
        .row > div { flex: 1; }
        input[type="range"] { width: 100%; }
        .range-value { font-size: 0.85rem; color: #555; }
        button {
            margin-top: 1.2rem;
            width: 100%;
            padding: 0.7rem;
            border: none;
            border-radius: 0.5rem;
            background: #0056b3;
            color: #fff;
            font-size: 1rem;
            cursor: pointer;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>&#129504; Speech Explorer</h1>
        <div class="subtitle">Semantic search in political speeches, news and more &ndash; type a phrase and jump straight to the moment it appears.</div>
        <form action="/search" method="get">
            <label for="q">Search phrase or word (e.g. 'China')</label>
            <input type="text" id="q" name="q" required>

            <div class="row">
                <div>
                    <label for="category">Main category</label>
                    <select id="category" name="category" onchange="updateSubcategories()">
{{- range .Categories}}
                        <option value="{{.Name}}">{{.Name}}</option>
{{- end}}
                    </select>
                </div>
                <div>
                    <label for="subcategory">Sub category</label>
                    <select id="subcategory" name="subcategory"></select>
                </div>
            </div>

            <div class="row">
                <div>
                    <label for="min_similarity">Minimum similarity (match quality)</label>
                    <input type="range" id="min_similarity" name="min_similarity"
                        min="0.3" max="0.9" step="0.05" value="{{.MinSimilarity}}"
                        oninput="document.getElementById('sim-value').textContent = this.value">
                    <div class="range-value"><span id="sim-value">{{.MinSimilarity}}</span></div>
                </div>
                <div>
                    <label for="max_results">Maximum number of segments</label>
                    <input type="range" id="max_results" name="max_results"
                        min="20" max="300" step="20" value="{{.MaxResults}}"
                        oninput="document.getElementById('max-value').textContent = this.value">
                    <div class="range-value"><span id="max-value">{{.MaxResults}}</span></div>
                </div>
            </div>

            <button type="submit">&#128269; Search</button>
        </form>
    </div>
    <script>
        const subcategories = {
{{- range .Categories}}
            {{.Name}}: ["Any"{{range .Subcategories}}, {{.}}{{end}}],
{{- end}}
        };
        function updateSubcategories() {
            const main = document.getElementById('category').value;
            const select = document.getElementById('subcategory');
            select.innerHTML = '';
            for (const sub of subcategories[main] || ['Any']) {
                const option = document.createElement('option');
                option.value = sub;
                option.textContent = sub;
                select.appendChild(option);
            }
        }
        updateSubcategories();
    </script>
</body>
</html>
`
