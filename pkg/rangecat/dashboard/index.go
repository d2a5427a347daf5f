package dashboard

import "net/http"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Rangecat Dashboard</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; background: #f5f5f5; }
        .header { background: #2c3e50; color: white; padding: 20px; border-radius: 5px; margin-bottom: 20px; }
        .grid { display: grid; grid-template-columns: 2fr 1fr; gap: 20px; }
        .card { background: white; padding: 20px; border-radius: 5px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .card input { width: 120px; padding: 8px; margin: 5px; }
        .card button { background: #3498db; color: white; border: none; padding: 8px 16px; border-radius: 3px; cursor: pointer; }
        .error { color: #e74c3c; padding: 10px 0; }
        table { width: 100%; border-collapse: collapse; margin-top: 15px; }
        th, td { text-align: left; padding: 6px 10px; border-bottom: 1px solid #ecf0f1; font-family: monospace; }
        th { background: #ecf0f1; }
        .category { padding: 8px; margin: 5px 0; background: #f8f9fa; border-left: 4px solid #3498db; }
        .category code { font-size: 0.85em; color: #7f8c8d; }
        .feed { max-height: 300px; overflow-y: auto; }
        .feed-item { padding: 8px; margin: 5px 0; background: #ecf0f1; border-left: 4px solid #2ecc71; font-size: 0.9em; }
        .timestamp { font-size: 0.8em; color: #7f8c8d; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Rangecat Dashboard</h1>
        <p>Categorize integer ranges with the configured rule set</p>
    </div>

    <div class="grid">
        <div class="card">
            <h3>Analyze a Range</h3>
            <label>Min: <input type="number" id="min" value="1" /></label>
            <label>Max: <input type="number" id="max" value="20" /></label>
            <button onclick="analyze()">Analyze</button>
            <div class="error" id="error"></div>
            <table>
                <thead><tr><th>Number</th><th>Categories</th></tr></thead>
                <tbody id="results"><tr><td colspan="2">No analysis yet</td></tr></tbody>
            </table>
        </div>

        <div>
            <div class="card" style="margin-bottom: 20px;">
                <h3>Categories</h3>
                <div id="categories">Loading...</div>
            </div>
            <div class="card">
                <h3>Recent Analyses</h3>
                <div class="feed" id="feed">
                    <div class="feed-item">Waiting for analyses...</div>
                </div>
            </div>
        </div>
    </div>

    <script>
        const ws = new WebSocket('ws://' + window.location.host + '/ws');

        ws.onmessage = function(event) {
            const msg = JSON.parse(event.data);
            if (msg.type === 'analysis') {
                addFeedItem(msg.data);
            }
        };

        function analyze() {
            const min = parseInt(document.getElementById('min').value, 10);
            const max = parseInt(document.getElementById('max').value, 10);
            document.getElementById('error').textContent = '';

            fetch('/api/analyze', {
                method: 'POST',
                headers: { 'Content-Type': 'application/json' },
                body: JSON.stringify({ min: min, max: max })
            })
            .then(response => response.json())
            .then(data => {
                if (data.status === 'ok') {
                    renderResults(data.data.records);
                } else {
                    document.getElementById('error').textContent = data.message;
                }
            })
            .catch(error => {
                document.getElementById('error').textContent = 'Request failed: ' + error;
            });
        }

        function renderResults(records) {
            const body = document.getElementById('results');
            body.innerHTML = '';
            records.forEach(record => {
                const row = document.createElement('tr');
                const number = document.createElement('td');
                number.textContent = record.number.toLocaleString();
                const labels = document.createElement('td');
                labels.textContent = record.labels.join(', ');
                row.appendChild(number);
                row.appendChild(labels);
                body.appendChild(row);
            });
            if (records.length === 0) {
                body.innerHTML = '<tr><td colspan="2">No results</td></tr>';
            }
        }

        function addFeedItem(update) {
            const feed = document.getElementById('feed');
            const item = document.createElement('div');
            item.className = 'feed-item';

            const counts = Object.entries(update.counts || {})
                .map(([label, n]) => label + ': ' + n)
                .join(', ');
            item.innerHTML =
                '<div><strong>[' + update.min + ', ' + update.max + ']</strong> ' +
                update.size + ' numbers in ' + update.duration + '</div>' +
                '<div>' + (counts || 'no matches') + '</div>' +
                '<div class="timestamp">' + new Date(update.timestamp).toLocaleString() + '</div>';

            feed.insertBefore(item, feed.firstChild);
            while (feed.children.length > 20) {
                feed.removeChild(feed.lastChild);
            }
        }

        function loadCategories() {
            fetch('/api/categories')
            .then(response => response.json())
            .then(data => {
                const list = document.getElementById('categories');
                if (data.status === 'ok' && data.data.length > 0) {
                    list.innerHTML = '';
                    data.data.forEach(category => {
                        const div = document.createElement('div');
                        div.className = 'category';
                        const name = document.createElement('strong');
                        name.textContent = category.label;
                        const source = document.createElement('code');
                        source.textContent = category.source;
                        div.appendChild(name);
                        div.appendChild(document.createElement('br'));
                        div.appendChild(source);
                        list.appendChild(div);
                    });
                } else {
                    list.textContent = 'No categories configured';
                }
            });
        }

        function loadHistory() {
            fetch('/api/history')
            .then(response => response.json())
            .then(data => {
                if (data.status === 'ok' && data.data.length > 0) {
                    document.getElementById('feed').innerHTML = '';
                    data.data.forEach(addFeedItem);
                }
            });
        }

        window.onload = function() {
            loadCategories();
            loadHistory();
        };
    </script>
</body>
</html>
`
