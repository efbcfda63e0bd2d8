package rod

// Pages served to the live browser tests.
const (
	TreeHTML = `<!DOCTYPE html>
<html>
<body>
	<div id="tree">
		<ul class="list-group">
			<li class="list-group-item node-tree" data-nodeid="0" title="Datastores">
				<span class="icon expand-icon fa fa-fw fa-angle-right"></span>
				<span class="icon node-icon pficon pficon-folder-close"></span>Datastores
			</li>
		</ul>
	</div>
	<script>
		document.querySelector('.expand-icon').addEventListener('click', function(ev) {
			ev.target.classList.remove('fa-angle-right');
			ev.target.classList.add('fa-angle-down');
		});
	</script>
</body>
</html>`

	FormHTML = `<!DOCTYPE html>
<html>
<body>
	<form id="testForm">
		<input id="username" type="text" name="username" value="admin" />
		<input id="agree" type="checkbox" />
		<button id="confirm" type="button" onclick="if (confirm('Sure?')) { this.textContent = 'Confirmed'; }">Confirm</button>
		<button id="remove" type="button" onclick="this.remove()">Remove me</button>
		<span id="hidden" style="display: none">secret</span>
	</form>
</body>
</html>`
)
