package graphql

import (
	"bytes"
	"html/template"
)

var playgroundTemplate = template.Must(template.New("graphiql").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Pokedex GraphQL</title>
  <link rel="stylesheet" href="https://unpkg.com/graphiql@3/graphiql.min.css">
  <style>body { margin: 0; height: 100vh; } #graphiql { height: 100vh; }</style>
</head>
<body>
  <div id="graphiql"></div>
  <script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/graphiql@3/graphiql.min.js"></script>
  <script>
    const fetcher = GraphiQL.createFetcher({
      url: {{.Endpoint}},
      headers: localStorage.getItem('pokedex.token')
        ? { Authorization: 'Bearer ' + localStorage.getItem('pokedex.token') }
        : {},
    });
    ReactDOM.createRoot(document.getElementById('graphiql'))
      .render(React.createElement(GraphiQL, { fetcher }));
  </script>
</body>
</html>
`))

// playgroundPage renders GraphiQL pointed at endpoint
func playgroundPage(endpoint string) []byte {
	var buf bytes.Buffer
	if err := playgroundTemplate.Execute(&buf, struct{ Endpoint string }{endpoint}); err != nil {
		return []byte(err.Error())
	}
	return buf.Bytes()
}
