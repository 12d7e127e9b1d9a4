package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) docs(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(docsHTML))
}

const docsHTML = `<!DOCTYPE html>
<html>
<head>
<title>novelhub API</title>
<style>
body { font-family: sans-serif; max-width: 64em; margin: 2em auto; padding: 0 1em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.6em; text-align: left; }
code { background: #f4f4f4; padding: 0.1em 0.3em; }
</style>
</head>
<body>
<h1>novelhub API</h1>
<p>Scrapes serialized fiction listing and chapter pages, stores the
extracted records, and serves them over REST.</p>
<table>
<tr><th>Method</th><th>Path</th><th>Body</th><th>Description</th></tr>
<tr><td>GET</td><td><code>/api/manga</code></td><td>&mdash;</td><td>List all stored works (summaries)</td></tr>
<tr><td>GET</td><td><code>/api/manga/{id}</code></td><td>&mdash;</td><td>Full work record including chapter index</td></tr>
<tr><td>GET</td><td><code>/api/manga/{id}/chapters</code></td><td>&mdash;</td><td>Chapter index of a work</td></tr>
<tr><td>GET</td><td><code>/api/chapter/{id}</code></td><td>&mdash;</td><td>Extracted chapter content</td></tr>
<tr><td>POST</td><td><code>/api/manga/scrape</code></td><td><code>{"url"}</code></td><td>Scrape and store a work (idempotent per URL)</td></tr>
<tr><td>POST</td><td><code>/api/chapter/extract</code></td><td><code>{"manga_id","chapter_url"}</code></td><td>Extract and store one chapter</td></tr>
<tr><td>POST</td><td><code>/api/manga/{id}/extract_all</code></td><td><code>{"limit"?}</code></td><td>Sequentially extract all pending chapters</td></tr>
<tr><td>POST</td><td><code>/api/chapter/lookup</code></td><td><code>{"url"?,"manga_id"?,"chapter_number"?}</code></td><td>Find a chapter (at least one parameter)</td></tr>
<tr><td>POST</td><td><code>/api/chapter/get_id</code></td><td>same as lookup</td><td>Find a chapter, return only its id</td></tr>
<tr><td>POST</td><td><code>/api/manga/chapter_ids</code></td><td><code>{"manga_id","min_chapter"?,"max_chapter"?}</code></td><td>Chapter ids ordered by chapter number</td></tr>
<tr><td>POST</td><td><code>/api/chapter/url/v1</code></td><td><code>{"url","manga_id"?}</code></td><td>Find a chapter by exact URL</td></tr>
<tr><td>POST</td><td><code>/api/auth/register</code></td><td><code>{"username","email","password"}</code></td><td>Create an account</td></tr>
<tr><td>POST</td><td><code>/api/auth/login</code></td><td><code>{"email","password"}</code></td><td>Obtain a bearer token</td></tr>
<tr><td>GET</td><td><code>/api/users/me</code></td><td>&mdash;</td><td>Current user (bearer token required)</td></tr>
<tr><td>GET</td><td><code>/ws</code></td><td>&mdash;</td><td>WebSocket stream of scrape/extract events</td></tr>
</table>
<p>Errors are <code>{"status":"error","message":...}</code> with HTTP 400, 404 or 500.</p>
</body>
</html>
`
