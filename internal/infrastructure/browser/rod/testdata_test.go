package rod

// Fixture pages served by the browser-backed tests.
const (
	basicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1>Hello World</h1>
	<ul><li>One</li><li>Two</li><li>Three</li></ul>
</body>
</html>`

	formHTML = `<!DOCTYPE html>
<html>
<body>
	<label for="username">Username</label>
	<input id="username" type="text" name="username" />
	<input id="agree" type="checkbox" />
	<button id="submit" disabled>Submit</button>
</body>
</html>`

	alertHTML = `<!DOCTYPE html>
<html>
<body>
	<button id="warn" onclick="alert('Careful')">Warn</button>
	<button id="ask" onclick="document.title = prompt('Name?') || 'none'">Ask</button>
</body>
</html>`

	frameHTML = `<!DOCTYPE html>
<html>
<body>
	<h1>Outer</h1>
	<iframe id="inner" srcdoc="<p>Inside the frame</p>"></iframe>
</body>
</html>`
)
