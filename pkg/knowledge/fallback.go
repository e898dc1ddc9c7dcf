package knowledge

// FallbackDocument is served whenever the configured knowledge file cannot be read.
const FallbackDocument = `Introduction:
Hi, I'm Gaurav Kr Sah, a full-stack software developer who enjoys building fast, reliable web
applications and sharing what I learn through blogs and videos.

---

Skills:
- Languages: JavaScript, TypeScript, Go, Python
- Frontend: React, Next.js, Tailwind CSS
- Backend: Node.js, REST APIs, PostgreSQL, Supabase, Firebase
- Tools: Git, Docker, Vercel

---

Projects:
- Portfolio Website: a personal site with a blog, video gallery and a virtual assistant
- Task Manager: a collaborative to-do app with real-time updates
- Dev Toolkit: a collection of small utilities for everyday development work

---

Experience:
I have worked on freelance and personal projects covering web development, API design and
deployment, collaborating with clients from idea to launch.

---

Contact:
You can reach me by sending a message through this site, subscribing for updates, or scheduling
a meeting to talk about your project.
`
