package httpserver

// indexPage is the single-page shell. It only collects the upload and the
// question and renders the JSON the API returns; all media and model work
// happens server side.
const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Media Analysis Bot</title>
<style>
  body { font-family: system-ui, sans-serif; max-width: 760px; margin: 2rem auto; padding: 0 1rem; color: #222; }
  h1 { font-size: 1.6rem; }
  form { display: grid; gap: .75rem; margin: 1rem 0; }
  label { font-weight: 600; }
  input[type=text] { width: 100%; padding: .5rem; }
  button { padding: .5rem 1.25rem; cursor: pointer; }
  #result { white-space: pre-wrap; background: #f6f6f6; padding: 1rem; border-radius: 6px; display: none; }
  #error { color: #b00020; display: none; }
  #frame { max-width: 100%; display: none; margin-top: .5rem; }
  details { margin-top: 1.5rem; }
  footer { margin-top: 2rem; border-top: 1px solid #ddd; padding-top: .5rem; color: #666; }
</style>
</head>
<body>
<h1>🎥 Media Analysis Bot</h1>
<p>Upload an image or video and ask questions about it!</p>

<form id="analyze-form">
  <div>
    <label>Select media type:</label>
    <label><input type="radio" name="media" value="image" checked> Image</label>
    <label><input type="radio" name="media" value="video"> Video</label>
  </div>
  <div>
    <label for="file">Choose file</label><br>
    <input type="file" id="file" name="file" accept=".jpg,.jpeg,.png" required>
    <small>Maximum recommended file size: 5MB</small>
  </div>
  <div>
    <label for="query">What would you like to know about the media?</label>
    <input type="text" id="query" name="query" placeholder="Ask a specific question about the content" required>
  </div>
  <button type="submit" id="submit">Analyze</button>
</form>

<p id="error"></p>
<img id="frame" alt="Analyzed video frame (middle frame)">
<div id="result"></div>

<details>
  <summary>Tips for better results</summary>
  <ul>
    <li>Use images smaller than 5MB for best results</li>
    <li>For images: upload clear, well-lit images in JPG/PNG format</li>
    <li>For videos: the middle frame will be analyzed, so ensure key content is visible</li>
    <li>Ask specific, focused questions about the content</li>
    <li>If you get an error, try reducing the file size or simplifying your query</li>
  </ul>
</details>

<footer>Thank you for using the Media Analysis Bot!</footer>

<script>
const form = document.getElementById('analyze-form');
const fileInput = document.getElementById('file');
const errorEl = document.getElementById('error');
const resultEl = document.getElementById('result');
const frameEl = document.getElementById('frame');
const submitBtn = document.getElementById('submit');

document.querySelectorAll('input[name=media]').forEach(radio => {
  radio.addEventListener('change', () => {
    fileInput.accept = radio.value === 'video' ? '.mp4' : '.jpg,.jpeg,.png';
  });
});

form.addEventListener('submit', async (ev) => {
  ev.preventDefault();
  errorEl.style.display = resultEl.style.display = frameEl.style.display = 'none';
  submitBtn.disabled = true;
  submitBtn.textContent = 'Analyzing…';
  try {
    const fd = new FormData();
    fd.append('file', fileInput.files[0]);
    fd.append('query', document.getElementById('query').value);
    const resp = await fetch('/api/analyze', { method: 'POST', body: fd });
    const body = await resp.json();
    if (!resp.ok) {
      throw new Error(body.error || 'analysis failed');
    }
    if (body.frame) {
      frameEl.src = body.frame.data_uri;
      frameEl.style.display = 'block';
    }
    resultEl.textContent = body.answer;
    resultEl.style.display = 'block';
  } catch (err) {
    errorEl.textContent = err.message;
    errorEl.style.display = 'block';
  } finally {
    submitBtn.disabled = false;
    submitBtn.textContent = 'Analyze';
  }
});
</script>
</body>
</html>
`
