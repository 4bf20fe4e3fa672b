package site

// pageTemplate is the Go html/template for each documentation page.
const pageTemplate = `<!DOCTYPE html>
<html lang="{{.Language}}" data-theme="light">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} - {{.ProjectName}}</title>
  <link rel="stylesheet" href="{{.BasePath}}style.css">
  <script id="rtfd-script" data="{{.Loader}}"></script>
  {{if .LoaderSrc}}<script src="{{.LoaderSrc}}" defer></script>{{end}}
</head>
<body>
  <nav class="sidebar" id="sidebar">
    <div class="sidebar-header">
      <h2 class="project-title">{{.ProjectName}}</h2>
      <input type="text" id="search-input" placeholder="Search docs..." autocomplete="off">
    </div>
    <div class="sidebar-tree" id="sidebar-tree">
      {{.TreeHTML}}
    </div>
  </nav>
  <main class="content">
    <div class="top-bar">
      <button class="menu-toggle" id="menu-toggle" aria-label="Toggle sidebar">&#9776;</button>
      <button class="theme-toggle" id="theme-toggle" aria-label="Toggle theme">&#9680;</button>
    </div>
    <article class="page-content">
      {{.Content}}
    </article>
  </main>
  <script src="{{.BasePath}}script.js"></script>
</body>
</html>`

// cssContent is the stylesheet shared by every built page.
const cssContent = `:root {
  --bg: #ffffff;
  --bg-sidebar: #f1f3f5;
  --text: #212529;
  --text-muted: #868e96;
  --border: #dee2e6;
  --accent: #228be6;
  --code-bg: #f1f3f5;
  --sidebar-width: 280px;
  --content-max-width: 900px;
}

[data-theme="dark"] {
  --bg: #1a1b26;
  --bg-sidebar: #16171f;
  --text: #c0caf5;
  --text-muted: #565f89;
  --border: #292e42;
  --accent: #7aa2f7;
  --code-bg: #1f2030;
}

*, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }

body {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
  color: var(--text);
  background: var(--bg);
  line-height: 1.7;
  display: flex;
  min-height: 100vh;
}

.sidebar {
  width: var(--sidebar-width);
  background: var(--bg-sidebar);
  border-right: 1px solid var(--border);
  position: fixed;
  top: 0;
  left: 0;
  bottom: 0;
  overflow-y: auto;
}

.sidebar-header { padding: 20px 16px 12px; border-bottom: 1px solid var(--border); }
.project-title { font-size: 1.1rem; color: var(--accent); margin-bottom: 12px; }

#search-input {
  width: 100%;
  padding: 8px 12px;
  border: 1px solid var(--border);
  border-radius: 6px;
  background: var(--bg);
  color: var(--text);
}

.sidebar-tree { padding: 8px 0; font-size: 0.9rem; }
.sidebar-tree ul { list-style: none; padding-left: 12px; }
.sidebar-tree a { color: var(--text); text-decoration: none; display: block; padding: 2px 8px; }
.sidebar-tree a.active { color: var(--accent); font-weight: 600; }
.sidebar-tree .dir > ul { display: none; }
.sidebar-tree .dir.expanded > ul { display: block; }
.sidebar-tree .dir-toggle { cursor: pointer; color: var(--text-muted); padding: 2px 8px; display: block; }
.sidebar-tree .hidden { display: none; }

.content { margin-left: var(--sidebar-width); flex: 1; padding: 24px 40px; }
.top-bar { display: flex; justify-content: flex-end; gap: 8px; }
.top-bar button { background: none; border: 0; font-size: 1.2rem; cursor: pointer; color: var(--text); }
.menu-toggle { display: none; }

.page-content { max-width: var(--content-max-width); }
.page-content h1, .page-content h2, .page-content h3 { margin: 1.2em 0 0.6em; }
.page-content p, .page-content ul, .page-content ol, .page-content table { margin-bottom: 1em; }
.page-content a { color: var(--accent); }
.page-content pre { background: var(--code-bg); padding: 12px; border-radius: 6px; overflow-x: auto; }
.page-content code { background: var(--code-bg); padding: 0 4px; border-radius: 4px; }
.page-content pre code { padding: 0; }
.page-content table { border-collapse: collapse; }
.page-content th, .page-content td { border: 1px solid var(--border); padding: 6px 12px; }
.page-content img { max-width: 100%; }

@media (max-width: 768px) {
  .sidebar { display: none; }
  .sidebar.open { display: block; z-index: 100; }
  .content { margin-left: 0; padding: 16px; }
  .menu-toggle { display: inline; }
}
`

// jsContent drives the theme toggle, the sidebar tree and the page filter.
const jsContent = `(function() {
  "use strict";

  var html = document.documentElement;
  var sidebarTree = document.getElementById("sidebar-tree");

  function setTheme(theme) {
    html.setAttribute("data-theme", theme);
    try { localStorage.setItem("rtfd-theme", theme); } catch(e) {}
  }

  var stored = null;
  try { stored = localStorage.getItem("rtfd-theme"); } catch(e) {}
  if (stored) {
    setTheme(stored);
  } else if (window.matchMedia && window.matchMedia("(prefers-color-scheme: dark)").matches) {
    setTheme("dark");
  }

  var themeToggle = document.getElementById("theme-toggle");
  if (themeToggle) {
    themeToggle.addEventListener("click", function() {
      setTheme(html.getAttribute("data-theme") === "dark" ? "light" : "dark");
    });
  }

  var menuToggle = document.getElementById("menu-toggle");
  if (menuToggle) {
    menuToggle.addEventListener("click", function() {
      document.getElementById("sidebar").classList.toggle("open");
    });
  }

  document.querySelectorAll(".dir-toggle").forEach(function(toggle) {
    toggle.addEventListener("click", function() {
      this.parentElement.classList.toggle("expanded");
    });
  });

  var searchInput = document.getElementById("search-input");
  var searchIndex = null;
  var base = "";
  var css = document.querySelector("link[rel=stylesheet]");
  if (css) base = css.getAttribute("href").replace("style.css", "");

  fetch(base + "search-index.json")
    .then(function(r) { return r.json(); })
    .then(function(data) { searchIndex = data; })
    .catch(function() { searchIndex = null; });

  if (searchInput && sidebarTree) {
    searchInput.addEventListener("input", function() {
      var query = this.value.toLowerCase().trim();
      var matching = new Set();
      if (query && searchIndex) {
        searchIndex.forEach(function(entry) {
          var haystack = (entry.title + " " + entry.summary + " " + entry.content + " " + entry.path).toLowerCase();
          if (haystack.indexOf(query) !== -1) matching.add(entry.path);
        });
      }
      sidebarTree.querySelectorAll(".file").forEach(function(item) {
        var link = item.querySelector("a");
        if (!link) return;
        var href = link.getAttribute("href").replace(/^(\.\.\/)*/g, "");
        var match = !query || link.textContent.toLowerCase().indexOf(query) !== -1 || matching.has(href);
        item.classList.toggle("hidden", !match);
      });
      Array.from(sidebarTree.querySelectorAll(".dir")).reverse().forEach(function(dir) {
        var visible = dir.querySelectorAll("li.file:not(.hidden)").length > 0;
        dir.classList.toggle("hidden", !visible);
        if (query && visible) dir.classList.add("expanded");
      });
    });
  }
})();
`
