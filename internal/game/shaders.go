package game

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Mesh vertex shader: world-space lighting inputs, per-vertex flat colour.
const meshVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec3 aColor;
layout(location = 3) in vec2 aEmissiveAlpha;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProj;

out vec3 vNormal;
out vec3 vColor;
out vec2 vEmissiveAlpha;
out float vDepth;

void main() {
    vec4 world = uModel * vec4(aPos, 1.0);
    vec4 eye = uView * world;
    gl_Position = uProj * eye;
    vNormal = mat3(uModel) * aNormal;
    vColor = aColor;
    vEmissiveAlpha = aEmissiveAlpha;
    vDepth = -eye.z;
}
` + "\x00"

// Mesh fragment shader: ambient + one directional light, then linear fog.
const meshFragSrc = `#version 410 core

uniform vec3 uLightDir;
uniform float uAmbient;
uniform float uDiffuse;
uniform vec3 uFogColor;
uniform vec2 uFogRange;

in vec3 vNormal;
in vec3 vColor;
in vec2 vEmissiveAlpha;
in float vDepth;
out vec4 FragColor;

void main() {
    vec3 n = normalize(vNormal);
    float lambert = max(dot(n, uLightDir), 0.0);
    vec3 lit = vColor * (uAmbient + uDiffuse * lambert) + vColor * vEmissiveAlpha.x;
    float fog = clamp((vDepth - uFogRange.x) / (uFogRange.y - uFogRange.x), 0.0, 1.0);
    FragColor = vec4(mix(lit, uFogColor, fog), vEmissiveAlpha.y);
}
` + "\x00"

// Unlit shader for the cube smoke test.
const flatVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;

uniform mat4 uMVP;

void main() {
    gl_Position = uMVP * vec4(aPos, 1.0);
}
` + "\x00"

const flatFragSrc = `#version 410 core

uniform vec3 uColor;
out vec4 FragColor;

void main() {
    FragColor = vec4(uColor, 1.0);
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(buf))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(buf, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertSrc, fragSrc string) (uint32, error) {
	vs, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(buf))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(buf, "\x00"))
	}
	return program, nil
}
