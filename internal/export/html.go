package export

import (
	"encoding/json"
	"html"
	"strings"

	"github.com/msalah0e/strainscope/internal/layout"
	"github.com/msalah0e/strainscope/internal/scene"
)

// View carries the camera and scene settings the HTML viewer starts with.
type View struct {
	Title        string
	RingInterval int
	Offset       layout.Vec3
	FollowRate   float64
	Speed        float64
	MinAzimuth   float64
	MaxAzimuth   float64
	Epsilon      float64
	Distance     float64
	Polar        float64
	FOV          float64
}

// DefaultView matches the terminal explorer defaults.
func DefaultView() View {
	return View{
		Title:        "strainscope",
		RingInterval: 10,
		Offset:       layout.Vec3{Y: 6, Z: 18},
		FollowRate:   3,
		Speed:        0.004,
		MinAzimuth:   -0.8,
		MaxAzimuth:   0.8,
		Epsilon:      0.001,
		Distance:     60,
		Polar:        1.1,
		FOV:          60,
	}
}

type htmlNode struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Year    int      `json:"year"`
	Type    string   `json:"type"`
	Color   string   `json:"color"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Z       float64  `json:"z"`
	Lineage []string `json:"lineage"`
}

type htmlRing struct {
	Year   int     `json:"year"`
	X      float64 `json:"x"`
	Radius float64 `json:"r"`
}

type htmlPayload struct {
	Nodes    []htmlNode          `json:"nodes"`
	Edges    []layout.Connection `json:"edges"`
	Rings    []htmlRing          `json:"rings"`
	Legend   map[string]string   `json:"legend"`
	Fallback string              `json:"fallback"`
	Center   layout.Vec3         `json:"center"`
	Offset   layout.Vec3         `json:"offset"`
	Rate     float64             `json:"rate"`
	Rotate   [4]float64          `json:"rotate"` // speed, min, max, epsilon
	Distance float64             `json:"distance"`
	Polar    float64             `json:"polar"`
	FOV      float64             `json:"fov"`
}

// RenderHTML returns a self-contained HTML page that draws the same 3D
// layout on a canvas, with search, click-to-focus, keyboard cycling,
// camera fly-to and idle auto-rotation. All data is embedded; the page
// loads nothing else.
func RenderHTML(g *layout.Graph, v View) string {
	p := htmlPayload{
		Nodes:    make([]htmlNode, 0, g.Len()),
		Edges:    make([]layout.Connection, 0, len(g.Connections)),
		Legend:   make(map[string]string),
		Fallback: scene.Fallback,
		Center:   g.Center(),
		Offset:   v.Offset,
		Rate:     v.FollowRate,
		Rotate:   [4]float64{v.Speed, v.MinAzimuth, v.MaxAzimuth, v.Epsilon},
		Distance: v.Distance,
		Polar:    v.Polar,
		FOV:      v.FOV,
	}
	for t, c := range scene.TypeColors {
		p.Legend[string(t)] = c
	}
	for _, n := range g.Sorted() {
		p.Nodes = append(p.Nodes, htmlNode{
			ID:      n.ID,
			Name:    n.Name,
			Year:    n.Year,
			Type:    string(n.Type),
			Color:   scene.TypeColor(n.Type),
			X:       n.Position.X,
			Y:       n.Position.Y,
			Z:       n.Position.Z,
			Lineage: lineageIDs(n),
		})
	}
	for _, c := range g.Connections {
		_, okFrom := g.Node(c.From)
		_, okTo := g.Node(c.To)
		if okFrom && okTo {
			p.Edges = append(p.Edges, c)
		}
	}
	for _, r := range scene.Rings(g, v.RingInterval) {
		p.Rings = append(p.Rings, htmlRing{Year: r.Year, X: r.Center.X, Radius: r.Radius})
	}

	data, _ := json.Marshal(p)
	// keep "</script>" in names from closing the script element
	payload := strings.ReplaceAll(string(data), "</", "<\\/")

	title := v.Title
	if title == "" {
		title = "strainscope"
	}
	return strings.NewReplacer(
		"{{TITLE}}", html.EscapeString(title),
		"{{DATA}}", payload,
	).Replace(htmlTemplate)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{TITLE}}</title>
<style>
*{margin:0;padding:0;box-sizing:border-box}
body{background:#141d2b;color:#f2f2f2;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',sans-serif;overflow:hidden}
canvas{display:block}
#panel{position:fixed;top:16px;left:16px;z-index:10;background:rgba(20,29,43,0.9);border:1px solid rgba(139,195,74,0.3);border-radius:12px;padding:14px 18px;font-size:13px;width:260px}
#panel h2{color:#8BC34A;font-size:16px;margin-bottom:8px}
#search{width:100%;background:#1e2a3d;border:1px solid #2a3850;border-radius:8px;padding:7px 10px;color:#f2f2f2;font:inherit;outline:none}
#search:focus{border-color:#8BC34A}
#results{list-style:none;margin-top:6px;max-height:40vh;overflow:auto}
#results li{padding:3px 4px;cursor:pointer;color:#ccc}
#results li:hover{color:#fff;background:#2a3850}
#results span{color:#777;margin-left:6px}
#status{margin-top:8px;color:#888;font-size:11px}
#legend{position:fixed;bottom:16px;left:16px;z-index:10;background:rgba(20,29,43,0.9);border-radius:10px;padding:10px 14px;font-size:11px;color:#aaa}
.row{margin:3px 0;display:flex;align-items:center;gap:8px}
.dot{width:10px;height:10px;border-radius:50%;display:inline-block}
</style>
</head>
<body>
<div id="panel">
  <h2>{{TITLE}}</h2>
  <input id="search" type="text" placeholder="Search strains..." autocomplete="off">
  <ul id="results"></ul>
  <div id="status"></div>
</div>
<div id="legend"></div>
<canvas id="canvas"></canvas>
<script>
"use strict";
const D={{DATA}};
const nodes=D.nodes, byId={};
nodes.forEach((n,i)=>{byId[n.id]=n;n.i=i});
const edges=D.edges.filter(e=>byId[e.from]&&byId[e.to]);

const legend=document.getElementById('legend');
Object.keys(D.legend).sort().concat(['other']).forEach(t=>{
  const row=document.createElement('div');row.className='row';
  const dot=document.createElement('span');dot.className='dot';dot.style.background=D.legend[t]||D.fallback;
  row.appendChild(dot);row.appendChild(document.createTextNode(t));legend.appendChild(row);
});

// explorer state
let query='',focused=-1,highlight=new Set();
function matches(n){return query===''||n.name.toLowerCase().includes(query.toLowerCase())}
function state(n){
  const m=matches(n),h=highlight.has(n.id);
  return{match:m,highlighted:h,dimmed:!m&&!h,focused:focused>=0&&nodes[focused].id===n.id};
}
function selectNode(n){focused=n.i;query=n.name;highlight=new Set(n.lineage);sync()}
function clearFocus(){query='';focused=-1;highlight=new Set();sync()}
function setQuery(q){if(q===query)return;query=q;if(q===''){focused=-1;highlight=new Set()}sync()}
function cycle(dir){
  const n=nodes.length;if(!n)return;
  let next;
  if(focused<0)next=dir>0?0:n-1;else next=((focused+dir)%n+n)%n;
  selectNode(nodes[next]);
}

// camera
const V={x:0,y:0,z:0};
const add=(a,b)=>({x:a.x+b.x,y:a.y+b.y,z:a.z+b.z}),sub=(a,b)=>({x:a.x-b.x,y:a.y-b.y,z:a.z-b.z});
const scale=(a,k)=>({x:a.x*k,y:a.y*k,z:a.z*k}),dot=(a,b)=>a.x*b.x+a.y*b.y+a.z*b.z;
const cross=(a,b)=>({x:a.y*b.z-a.z*b.y,y:a.z*b.x-a.x*b.z,z:a.x*b.y-a.y*b.x});
const len=a=>Math.sqrt(dot(a,a)),unit=a=>{const l=len(a);return l?scale(a,1/l):V};
const lerp=(a,b,t)=>add(a,scale(sub(b,a),t));
const cam={target:{...D.center},pos:V,fov:D.fov||60};
function orbitOf(){const o=sub(cam.pos,cam.target),d=len(o);return{az:Math.atan2(o.x,o.z),polar:Math.acos(Math.max(-1,Math.min(1,o.y/(d||1)))),d:d}}
function setOrbit(o){const s=Math.sin(o.polar);cam.pos=add(cam.target,{x:o.d*s*Math.sin(o.az),y:o.d*Math.cos(o.polar),z:o.d*s*Math.cos(o.az)})}
setOrbit({az:0,polar:D.polar||1.1,d:D.distance||60});
const rot={speed:D.rotate[0],min:D.rotate[1],max:D.rotate[2],eps:D.rotate[3],dir:1};

function stepCamera(dt){
  if(focused>=0){
    const f=nodes[focused],a=1-Math.exp(-D.rate*dt);
    cam.target=lerp(cam.target,f,a);
    cam.pos=lerp(cam.pos,add({x:f.x,y:f.y,z:f.z},D.offset),a);
  }else if(query===''){
    const o=orbitOf();o.az+=rot.speed*rot.dir;
    if(rot.dir>0&&o.az>=rot.max-rot.eps){o.az=rot.max;rot.dir=-1}
    else if(rot.dir<0&&o.az<=rot.min+rot.eps){o.az=rot.min;rot.dir=1}
    setOrbit(o);
  }
}

const canvas=document.getElementById('canvas'),ctx=canvas.getContext('2d');
let W,H;
function resize(){W=canvas.width=window.innerWidth;H=canvas.height=window.innerHeight}
resize();window.addEventListener('resize',resize);

function project(p){
  const fw=unit(sub(cam.target,cam.pos));let right=unit(cross(fw,{x:0,y:1,z:0}));
  if(!len(right))right={x:1,y:0,z:0};
  const up=cross(right,fw),rel=sub(p,cam.pos),depth=dot(rel,fw);
  if(depth<=0.1)return null;
  const f=Math.tan(cam.fov*Math.PI/360),h=H/2;
  return{x:W/2+dot(rel,right)/(depth*f)*h,y:h-dot(rel,up)/(depth*f)*h,depth:depth,k:h/(depth*f)};
}

let seed=1960;
function rnd(){seed=(seed*16807)%2147483647;return seed/2147483647}
const stars=[];
for(let i=0;i<160;i++){
  const z=rnd()*2-1,t=rnd()*Math.PI*2,r=Math.sqrt(1-z*z),d=400*(0.8+0.2*rnd());
  stars.push({p:add(D.center,{x:r*Math.cos(t)*d,y:z*d,z:r*Math.sin(t)*d}),b:0.3+0.7*rnd()});
}

let clock=0,hovered=null;
function scaleOf(n,s){
  if(s.focused)return 1.7+0.15*Math.sin(clock*4);
  if(s.highlighted)return 1.35+0.1*Math.sin(clock*3);
  if(query!==''&&s.match)return 1.15+0.04*Math.sin(clock*2);
  if(hovered===n)return 1.08;
  return 1;
}

function draw(){
  ctx.fillStyle='#141d2b';ctx.fillRect(0,0,W,H);
  for(const s of stars){const q=project(s.p);if(!q)continue;ctx.fillStyle='rgba(242,242,242,'+(s.b*0.6)+')';ctx.fillRect(q.x,q.y,1.5,1.5)}
  ctx.lineWidth=1;
  for(const r of D.rings){
    ctx.beginPath();let started=false;
    for(let i=0;i<=64;i++){
      const a=i/64*Math.PI*2,q=project({x:r.x,y:Math.cos(a)*r.r,z:Math.sin(a)*r.r});
      if(!q){started=false;continue}
      if(started)ctx.lineTo(q.x,q.y);else{ctx.moveTo(q.x,q.y);started=true}
    }
    ctx.strokeStyle='rgba(42,56,80,0.8)';ctx.stroke();
    const top=project({x:r.x,y:r.r,z:0});
    if(top){ctx.fillStyle='#5c6b82';ctx.font='11px sans-serif';ctx.textAlign='center';ctx.fillText(r.year,top.x,top.y-6)}
  }
  const st=nodes.map(state);
  for(const e of edges){
    const a=byId[e.from],b=byId[e.to],pa=project(a),pb=project(b);if(!pa||!pb)continue;
    const sa=st[a.i],sb=st[b.i];
    if(sa.highlighted&&sb.highlighted){ctx.strokeStyle='rgba(255,245,157,1)';ctx.lineWidth=2}
    else if(!sa.match||!sb.match){ctx.strokeStyle='rgba(92,107,130,0.1)';ctx.lineWidth=1}
    else{ctx.strokeStyle='rgba(92,107,130,0.45)';ctx.lineWidth=1}
    ctx.beginPath();ctx.moveTo(pa.x,pa.y);ctx.lineTo(pb.x,pb.y);ctx.stroke();
  }
  const order=nodes.map(n=>({n:n,q:project(n)})).filter(o=>o.q).sort((a,b)=>b.q.depth-a.q.depth);
  for(const o of order){
    const n=o.n,s=st[n.i],r=Math.max(2,0.9*o.q.k*scaleOf(n,s));
    ctx.globalAlpha=s.dimmed?0.15:(s.focused||s.highlighted?1:0.85);
    ctx.beginPath();ctx.arc(o.q.x,o.q.y,r,0,Math.PI*2);ctx.fillStyle=n.color;ctx.fill();
    if(s.focused||s.highlighted||hovered===n){
      ctx.fillStyle='#f2f2f2';ctx.font=(s.focused?'bold ':'')+'12px sans-serif';ctx.textAlign='left';
      ctx.fillText(s.focused?n.name+' ('+n.year+')':n.name,o.q.x+r+4,o.q.y+4);
    }
    ctx.globalAlpha=1;
  }
}

function pick(x,y){
  let best=null,bd=Infinity;
  for(const n of nodes){const q=project(n);if(!q)continue;const d=Math.hypot(q.x-x,q.y-y);if(d<Math.max(12,q.k)&&d<bd){best=n;bd=d}}
  return best;
}

const search=document.getElementById('search'),results=document.getElementById('results'),status=document.getElementById('status');
function sync(){
  if(search.value!==query)search.value=query;
  results.textContent='';
  const showing=query!==''&&!(focused>=0&&nodes[focused].name===query);
  if(showing){
    for(const n of nodes){
      if(!matches(n))continue;
      const li=document.createElement('li');li.textContent=n.name;
      const y=document.createElement('span');y.textContent=n.year;li.appendChild(y);
      li.addEventListener('click',()=>selectNode(n));results.appendChild(li);
    }
  }
  status.textContent=focused>=0?nodes[focused].name+' · '+nodes[focused].year+' · '+highlight.size+' in lineage':(query===''?'auto-rotating':'searching');
}
search.addEventListener('input',()=>setQuery(search.value));
window.addEventListener('keydown',e=>{
  if(e.key==='Escape'){clearFocus();return}
  if(e.key==='ArrowLeft'||e.key==='ArrowUp'){e.preventDefault();cycle(-1)}
  if(e.key==='ArrowRight'||e.key==='ArrowDown'){e.preventDefault();cycle(1)}
});
canvas.addEventListener('click',e=>{const n=pick(e.clientX,e.clientY);if(n)selectNode(n);else clearFocus()});
canvas.addEventListener('mousemove',e=>{hovered=pick(e.clientX,e.clientY);canvas.style.cursor=hovered?'pointer':'default'});
canvas.addEventListener('wheel',e=>{
  e.preventDefault();const o=orbitOf();o.d=Math.max(4,Math.min(600,o.d*(e.deltaY>0?1.1:0.9)));setOrbit(o);
},{passive:false});

sync();
let last=performance.now();
(function loop(now){
  const dt=Math.min(0.1,(now-last)/1000);last=now;clock+=dt;
  stepCamera(dt);draw();requestAnimationFrame(loop);
})(last);
</script>
</body>
</html>
`
